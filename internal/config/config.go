package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds the converter options. Page layout is deliberately not
// configurable; these knobs cover substitution, verification, and
// document metadata only.
type Config struct {
	// Placeholder replaces characters the PDF encoding cannot represent.
	Placeholder string `mapstructure:"placeholder"`
	// VerifyOutput runs a structural check on the written PDF.
	VerifyOutput bool         `mapstructure:"verify_output"`
	Document     DocumentMeta `mapstructure:"document"`
}

// DocumentMeta is embedded into the PDF info dictionary.
type DocumentMeta struct {
	Title  string `mapstructure:"title"`
	Author string `mapstructure:"author"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Placeholder:  "?",
		VerifyOutput: true,
	}
}

// Load reads the Viper-populated config into a Config struct, applying
// defaults for unset keys.
func Load() (*Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, errors.New("unmarshal config: " + err.Error())
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = "?"
	}
	return cfg, nil
}
