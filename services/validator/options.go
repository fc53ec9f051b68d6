package validator

type Options struct {
	skipBlockSignature  bool
	skipDuplicateStakes bool
}

// Option is a function that sets some option on the Options struct
type Option func(*Options)

func NewDefaultOptions() *Options {
	return &Options{}
}

func ProcessOptions(opts ...Option) *Options {
	options := NewDefaultOptions()
	for _, o := range opts {
		o(options)
	}

	return options
}

// WithSkipBlockSignature skips the block signature check, for blocks assembled but not yet signed.
func WithSkipBlockSignature(skip bool) Option {
	return func(o *Options) {
		o.skipBlockSignature = skip
	}
}

// WithSkipDuplicateStakes disables the check that no two blocks stake the same input.
func WithSkipDuplicateStakes(skip bool) Option {
	return func(o *Options) {
		o.skipDuplicateStakes = skip
	}
}
