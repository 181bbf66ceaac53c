package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/user/hotscan/internal/extract"
)

// Config stores all configuration for the application.
type Config struct {
	OutputDir    string `mapstructure:"OUTPUT_DIR"`
	BaseURL      string `mapstructure:"BASE_URL"`
	CardClasses  string `mapstructure:"CARD_CLASSES"`
	Dedup        bool   `mapstructure:"DEDUP"`
	Workers      int    `mapstructure:"WORKERS"`
	ServerPort   string `mapstructure:"SERVER_PORT"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	PreviewRows  int    `mapstructure:"PREVIEW_ROWS"`
	LocatorsFile string `mapstructure:"LOCATORS_FILE"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables.
	_ = viper.ReadInConfig()

	// Set default values
	defaults := extract.DefaultLocators()
	viper.SetDefault("OUTPUT_DIR", "analysis")
	viper.SetDefault("BASE_URL", defaults.BaseOrigin)
	viper.SetDefault("CARD_CLASSES", defaults.CardClasses)
	viper.SetDefault("DEDUP", true)
	viper.SetDefault("WORKERS", 1)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PREVIEW_ROWS", 15)
	viper.SetDefault("LOCATORS_FILE", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Locators builds the extraction locator table: the built-in defaults,
// overridden by BASE_URL and CARD_CLASSES, then by the optional locators
// file. Keys absent from the file keep their current values.
func (c *Config) Locators() (extract.Locators, error) {
	locators := extract.DefaultLocators()
	if c.BaseURL != "" {
		locators.BaseOrigin = c.BaseURL
	}
	if c.CardClasses != "" {
		locators.CardClasses = c.CardClasses
	}
	if c.LocatorsFile == "" {
		return locators, nil
	}

	v := viper.New()
	v.SetConfigFile(c.LocatorsFile)
	if err := v.ReadInConfig(); err != nil {
		return extract.Locators{}, fmt.Errorf("read locators file %s: %w", c.LocatorsFile, err)
	}
	if err := v.Unmarshal(&locators); err != nil {
		return extract.Locators{}, fmt.Errorf("parse locators file %s: %w", c.LocatorsFile, err)
	}
	return locators, nil
}
