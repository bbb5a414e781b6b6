package compat

import (
	"fmt"

	"github.com/ferrmin/daylog"
)

// Builder constructs adapters that share one daylog.Logger. Hand it an
// existing logger with WithLogger, or a configuration with WithConfig and
// let it create and start the logger on first build. With neither, the
// first build starts a logger on defaults.
type Builder struct {
	logger *daylog.Logger
	logCfg *daylog.Config
	err    error
}

// NewBuilder creates an empty adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger sets the shared logger for every adapter built. A nil logger
// is an error surfaced by the next build call. When a logger is set,
// WithConfig is ignored.
func (b *Builder) WithLogger(l *daylog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("daylog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig sets the configuration used to create the shared logger when
// no existing logger was provided
func (b *Builder) WithConfig(cfg *daylog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger returns the shared logger, creating and starting it on first
// use. The created logger is cached so every adapter from this builder
// writes through the same instance.
func (b *Builder) getLogger() (*daylog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = daylog.DefaultConfig()
	}

	l := daylog.NewLogger()
	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	if err := l.Start(); err != nil {
		return nil, err
	}

	b.logger = l
	return l, nil
}

// BuildGnet returns a gnet logging.Logger adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildStructuredGnet returns a gnet adapter that lifts printf key/value
// fragments into record fields
func (b *Builder) BuildStructuredGnet(opts ...GnetOption) (*StructuredGnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewStructuredGnetAdapter(l, opts...), nil
}

// BuildFastHTTP returns a fasthttp Logger adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildFiber returns a fiber CommonLogger adapter
func (b *Builder) BuildFiber(opts ...FiberOption) (*FiberAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFiberAdapter(l, opts...), nil
}

// GetLogger exposes the shared logger, creating it if no build has run yet.
// Useful for shutting the logger down after the servers stop.
func (b *Builder) GetLogger() (*daylog.Logger, error) {
	return b.getLogger()
}
