package pdfreport

import (
	"math/rand"
	"time"

	"github.com/lvillar/pdfreport/canvas"
	"github.com/lvillar/pdfreport/observability"
)

// DefaultMaxLoops bounds the section page loop of a whole build.
const DefaultMaxLoops = 500

// Option is a functional option for configuring a Report via New.
type Option func(*reportConfig)

type reportConfig struct {
	logger   observability.Logger
	surface  canvas.Surface
	fontDir  string
	baseDir  string
	maxLoops int
	now      func() time.Time
	rnd      *rand.Rand
}

// WithLogger sets the logger for build progress and recovered failures.
func WithLogger(l observability.Logger) Option {
	return func(c *reportConfig) {
		c.logger = l
	}
}

// WithSurface draws on s instead of a new fpdf-backed document. Use
// canvas.NewRecorder to capture the drawing calls.
func WithSurface(s canvas.Surface) Option {
	return func(c *reportConfig) {
		c.surface = s
	}
}

// WithFontDir sets the directory where UTF-8 font files are located.
func WithFontDir(dir string) Option {
	return func(c *reportConfig) {
		c.fontDir = dir
	}
}

// WithBaseDir resolves relative image, background and output paths
// against dir.
func WithBaseDir(dir string) Option {
	return func(c *reportConfig) {
		c.baseDir = dir
	}
}

// WithMaxLoops sets the section loop safety limit.
func WithMaxLoops(n int) Option {
	return func(c *reportConfig) {
		c.maxLoops = n
	}
}

// WithClock sets the time source of {CURRENTDATE} and {CURRENTTIME}.
func WithClock(now func() time.Time) Option {
	return func(c *reportConfig) {
		c.now = now
	}
}

// WithRand sets the generator behind {RAND1} .. {RAND8} and random chart colors.
func WithRand(r *rand.Rand) Option {
	return func(c *reportConfig) {
		c.rnd = r
	}
}

func newConfig(opts []Option) *reportConfig {
	cfg := &reportConfig{
		logger:   observability.NopLogger{},
		maxLoops: DefaultMaxLoops,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rnd == nil {
		cfg.rnd = rand.New(rand.NewSource(cfg.now().UnixNano()))
	}
	if cfg.maxLoops <= 0 {
		cfg.maxLoops = DefaultMaxLoops
	}
	return cfg
}
