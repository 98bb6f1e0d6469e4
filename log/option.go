package log

import "io"

// Option sets one field of a Logger configuration.
type Option func(*config)

// newConfig returns the defaults for w with opts applied in order.
func newConfig(w io.Writer, opts ...Option) config {
	var c config
	WithDefaults(w)(&c)

	return c.with(opts...)
}

// with returns a copy of c with opts applied. Nil options are skipped.
func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}
