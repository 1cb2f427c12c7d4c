package extension

// Config holds the Spendbook extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.spendbook" or "spendbook" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// DefaultCurrency is assumed when an expense input leaves the currency
	// blank (default: "PKR").
	DefaultCurrency string `json:"default_currency" mapstructure:"default_currency" yaml:"default_currency"`

	// PageSize is the page size used when a listing does not specify one
	// (default: 20).
	PageSize int `json:"page_size" mapstructure:"page_size" yaml:"page_size"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency: "PKR",
		PageSize:        20,
	}
}
