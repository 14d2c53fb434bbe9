// Package testutil provides testing utilities for geocell.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random geography values and for
// computing exact point-in-polygon ground truth.
//
// # Random Geography Generation
//
//	rng := testutil.NewRNG(seed)
//	g := rng.Rect(2.0)             // random box up to 2° on a side
//	pt := rng.PointNear(g, 0.1)    // point within 0.1° of the box
//
// # Exact Containment (Ground Truth)
//
//	rows := testutil.BruteForceContains(geographies, pt)
package testutil
