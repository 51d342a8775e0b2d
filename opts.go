package retar

import "log/slog"

// Option configures Reorder, Rewrite and RewriteInPlace.
type Option func(*config)

type config struct {
	sniffer  Sniffer
	logger   *slog.Logger
	onEntry  func(Entry)
	sniffSet bool
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if !c.sniffSet {
		c.sniffer = DefaultSniffer()
	}
	return c
}

// log returns the logger, falling back to a discard logger if nil.
func (c *config) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// WithSniffer replaces the built-in content detector. A nil sniffer disables
// content-type grouping entirely.
func WithSniffer(s Sniffer) Option {
	return func(c *config) {
		c.sniffer = s
		c.sniffSet = true
	}
}

// WithoutSniffing disables content-type detection. All regular files share a
// single content-type group and are discriminated by extension chain and
// base name only.
func WithoutSniffing() Option {
	return func(c *config) {
		c.sniffer = nil
		c.sniffSet = true
	}
}

// WithLogger sets the logger for progress and debug output. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithOnEntry registers a hook invoked for each entry as it is emitted in
// final order, before it is written. Used for verbose listings.
func WithOnEntry(fn func(Entry)) Option {
	return func(c *config) { c.onEntry = fn }
}
