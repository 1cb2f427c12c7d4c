package extension

import (
	"github.com/xraph/spendbook"
	"github.com/xraph/spendbook/plugin"
	"github.com/xraph/spendbook/store"
)

// Option configures the Spendbook Forge extension.
type Option func(*Extension)

// WithStore sets the store for the book engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithBookOption passes a spendbook.Option through to the underlying engine.
func WithBookOption(opt spendbook.Option) Option {
	return func(e *Extension) {
		e.bookOpts = append(e.bookOpts, opt)
	}
}

// WithPlugin registers a spendbook plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.bookOpts = append(e.bookOpts, spendbook.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithDefaultCurrency sets the currency assumed for blank expense inputs.
func WithDefaultCurrency(currency string) Option {
	return func(e *Extension) { e.config.DefaultCurrency = currency }
}

// WithPageSize sets the default listing page size.
func WithPageSize(size int) Option {
	return func(e *Extension) { e.config.PageSize = size }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
