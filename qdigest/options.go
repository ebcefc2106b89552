package qdigest

import "github.com/rs/zerolog"

// DefaultCompressionLevel is the accuracy target used by CompressDefault unless
// overridden with WithCompressionLevel.
const DefaultCompressionLevel = 100

// Option configures a QDigest.
type Option func(*QDigest)

// WithLogger sets a logger for compression diagnostics. Digests are silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(d *QDigest) {
		d.log = log
	}
}

// WithCompressionLevel sets the accuracy target k used by CompressDefault.
// A zero level is ignored.
func WithCompressionLevel(k uint64) Option {
	return func(d *QDigest) {
		if k > 0 {
			d.level = k
		}
	}
}
