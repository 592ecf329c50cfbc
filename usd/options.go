package usd

const defaultMaxDepth = 4096

type config struct {
	maxDepth int
}

type Option func(*config)

// WithMaxDepth bounds prim nesting. Input nested deeper than n fails with
// ErrLimitExceeded. n <= 0 selects the default of 4096.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}
