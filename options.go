package geocell

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/hupe1980/geocell/covering"
	"github.com/hupe1980/geocell/internal/cellmap"
)

// Default covering levels. Cells from whole cube faces (level 0) down to
// roughly 20,000 m² (level 16) are used, every other level.
const (
	MinCellLevel = 0
	MaxCellLevel = 16
	CellLevelMod = 2
)

// maxS2Level is the leaf level of the S2 hierarchy.
const maxS2Level = 30

// MaxCellCount is the largest number of cells kept per row.
const MaxCellCount = cellmap.MaxCellCount

// numFaces is the number of level-0 cells. Any polygon fits in numFaces
// cells at level 0, so coverings can always be coarsened to fit when
// MinLevel is 0 and MaxCells >= numFaces.
const numFaces = 6

type options struct {
	coverer          covering.Coverer
	minLevel         int
	maxLevel         int
	levelMod         int
	maxCells         int
	metricsCollector MetricsCollector
	logger           *Logger
	buildConcurrency int
}

// Option configures New.
type Option func(*options)

// WithCoverer configures the covering service.
//
// If nil is passed, covering.S2 is used.
func WithCoverer(c covering.Coverer) Option {
	return func(o *options) {
		if c == nil {
			c = covering.S2{}
		}
		o.coverer = c
	}
}

// WithLevels configures the cell levels used for coverings and searches.
// (maxLevel - minLevel) must be a multiple of levelMod.
//
// With minLevel above 0 coverings cannot be coarsened to whole faces: a
// polygon spanning more than MaxCells cells at minLevel is rejected by
// AddEntry with ErrCoveringOverflow.
func WithLevels(minLevel, maxLevel, levelMod int) Option {
	return func(o *options) {
		o.minLevel = minLevel
		o.maxLevel = maxLevel
		o.levelMod = levelMod
	}
}

// WithMaxCells limits the covering size per row. It must be in [1, MaxCellCount],
// and at least 6 when the minimum level is 0, so that a polygon touching
// every cube face still fits.
func WithMaxCells(n int) Option {
	return func(o *options) {
		o.maxCells = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithBuildConcurrency bounds the goroutines computing coverings in Build.
// Values below 1 mean GOMAXPROCS.
func WithBuildConcurrency(n int) Option {
	return func(o *options) {
		o.buildConcurrency = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		coverer:          covering.S2{},
		minLevel:         MinCellLevel,
		maxLevel:         MaxCellLevel,
		levelMod:         CellLevelMod,
		maxCells:         MaxCellCount,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.buildConcurrency < 1 {
		o.buildConcurrency = runtime.GOMAXPROCS(0)
	}
	return o
}

func (o *options) validate() error {
	switch {
	case o.minLevel < 0:
		return &ConfigError{Field: "minLevel", Reason: fmt.Sprintf("%d is negative", o.minLevel)}
	case o.maxLevel > maxS2Level:
		return &ConfigError{Field: "maxLevel", Reason: fmt.Sprintf("%d exceeds %d", o.maxLevel, maxS2Level)}
	case o.minLevel > o.maxLevel:
		return &ConfigError{Field: "minLevel", Reason: fmt.Sprintf("%d exceeds maxLevel %d", o.minLevel, o.maxLevel)}
	case o.levelMod < 1 || o.levelMod > 3:
		return &ConfigError{Field: "levelMod", Reason: fmt.Sprintf("%d not in [1, 3]", o.levelMod)}
	case (o.maxLevel-o.minLevel)%o.levelMod != 0:
		return &ConfigError{Field: "levelMod", Reason: fmt.Sprintf("maxLevel %d and minLevel %d not congruent modulo %d", o.maxLevel, o.minLevel, o.levelMod)}
	case o.maxCells < 1 || o.maxCells > MaxCellCount:
		return &ConfigError{Field: "maxCells", Reason: fmt.Sprintf("%d not in [1, %d]", o.maxCells, MaxCellCount)}
	case o.minLevel == 0 && o.maxCells < numFaces:
		return &ConfigError{Field: "maxCells", Reason: fmt.Sprintf("%d cannot hold a covering of %d faces at level 0", o.maxCells, numFaces)}
	}
	return nil
}

func (o *options) params() covering.Params {
	return covering.Params{
		MinLevel: o.minLevel,
		MaxLevel: o.maxLevel,
		LevelMod: o.levelMod,
		MaxCells: o.maxCells,
	}
}
