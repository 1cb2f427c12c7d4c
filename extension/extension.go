// Package extension provides the Forge extension adapter for Spendbook.
//
// It implements the forge.Extension interface to integrate Spendbook
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.spendbook" or
// "spendbook" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/spendbook"
	"github.com/xraph/spendbook/store"
	"github.com/xraph/spendbook/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "spendbook"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Embeddable personal expense ledger engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Spendbook as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config   Config
	engine   *spendbook.Book
	store    store.Store
	bookOpts []spendbook.Option
}

// New creates a new Spendbook Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Book instance.
// This is nil until Register is called.
func (e *Extension) Engine() *spendbook.Book { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the book engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build book options from resolved config.
	opts := e.buildBookOpts()

	eng := spendbook.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*spendbook.Book, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("spendbook: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("spendbook: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildBookOpts constructs spendbook.Option values from the resolved config.
func (e *Extension) buildBookOpts() []spendbook.Option {
	opts := make([]spendbook.Option, 0, len(e.bookOpts)+2)

	if e.config.DefaultCurrency != "" {
		opts = append(opts, spendbook.WithDefaultCurrency(e.config.DefaultCurrency))
	}
	if e.config.PageSize > 0 {
		opts = append(opts, spendbook.WithPageSize(e.config.PageSize))
	}

	// Append any pass-through book options.
	opts = append(opts, e.bookOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("spendbook: configuration is required but not found in config files; " +
				"ensure 'extensions.spendbook' or 'spendbook' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("spendbook: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("default_currency", e.config.DefaultCurrency),
		forge.F("page_size", e.config.PageSize),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.spendbook" first (namespaced pattern).
	if cm.IsSet("extensions.spendbook") {
		if err := cm.Bind("extensions.spendbook", &cfg); err == nil {
			e.Logger().Debug("spendbook: loaded config from file",
				forge.F("key", "extensions.spendbook"),
			)
			return cfg, true
		}
		e.Logger().Warn("spendbook: failed to bind extensions.spendbook config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "spendbook" key.
	if cm.IsSet("spendbook") {
		if err := cm.Bind("spendbook", &cfg); err == nil {
			e.Logger().Debug("spendbook: loaded config from file",
				forge.F("key", "spendbook"),
			)
			return cfg, true
		}
		e.Logger().Warn("spendbook: failed to bind spendbook config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = defaults.DefaultCurrency
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = defaults.PageSize
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.DefaultCurrency == "" && programmaticConfig.DefaultCurrency != "" {
		yamlConfig.DefaultCurrency = programmaticConfig.DefaultCurrency
	}
	if yamlConfig.PageSize == 0 && programmaticConfig.PageSize != 0 {
		yamlConfig.PageSize = programmaticConfig.PageSize
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
