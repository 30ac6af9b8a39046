package dgc

import "github.com/joeycumines/logiface"

// initOptions holds configuration resolved from InitOption values passed
// to Init.
type initOptions struct {
	logger *logiface.Logger[*stumpyEvent]
}

// InitOption is a functional option for configuring the collector at Init
// time.
type InitOption interface {
	applyInit(*initOptions)
}

type initOptionFunc func(*initOptions)

func (f initOptionFunc) applyInit(o *initOptions) { f(o) }

// WithLogger makes Init install l as the package-level structured logger,
// as SetLogger does. Term does not restore the previous logger; l stays in
// place until the next SetLogger or WithLogger. When not supplied, Init
// leaves the current logger (by default the stumpy-backed one set up in
// logging.go) unchanged.
func WithLogger(l *logiface.Logger[*stumpyEvent]) InitOption {
	return initOptionFunc(func(o *initOptions) { o.logger = l })
}

func resolveInitOptions(opts []InitOption) *initOptions {
	cfg := &initOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyInit(cfg)
	}
	return cfg
}
