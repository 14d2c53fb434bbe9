// Package geo provides the geography column values consumed by the covering
// cell index.
//
// A Geography wraps an s2 polygon behind shared, immutable storage: copying a
// Geography copies a reference, so two rows holding copies of the same value
// report SameStorage. A zero Geography is SQL NULL. Point is the nullable
// query value for containment searches.
package geo
