package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler configures and starts a profiler.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option sets one field of a [Profiler].
type Option func(Profiler) Profiler

// New returns a Profiler with opts applied.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// Start initializes the profiler and returns an interface for stopping it.
//
// Mode selects the profile kind (see [Modes]) and Path the output directory.
// If build tag pprof or Mode are unset, or Mode is not recognized, Start
// returns a no-op implementation. Both Start and Stop are always safely
// callable.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

type ignore struct{}

func (ignore) Stop() {}
