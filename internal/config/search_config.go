package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type SearchConfig struct {
	DefaultLimit          int `mapstructure:"default_limit"`
	ListingExpirationDays int `mapstructure:"listing_expiration_days"`
}

func (config SearchConfig) validate() error {
	if config.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be greater than zero")
	}
	if config.ListingExpirationDays <= 0 {
		return fmt.Errorf("listing_expiration_days must be greater than zero")
	}
	return nil
}

func (config SearchConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("search.default_limit", "SEARCH_DEFAULT_LIMIT")
	if err != nil {
		return err
	}

	return viper.BindEnv("search.listing_expiration_days", "LISTING_EXPIRATION_DAYS")
}
