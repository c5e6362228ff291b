package repository

import "github.com/okian/cricscore/pkg/logger"

type storeOptions struct {
	logger logger.Logger
}

// Option configures a store.
type Option func(*storeOptions)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(o *storeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) storeOptions {
	o := storeOptions{logger: logger.Get().Named("repository")}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
