package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	AI     AIConfig     `mapstructure:"ai"`
	DB     DBConfig     `mapstructure:"db"`
	Search SearchConfig `mapstructure:"search"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	viper.SetDefault("search.default_limit", 20)
	viper.SetDefault("search.listing_expiration_days", 60)
	viper.SetDefault("ai.embedding_model", "text-embedding-004")

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func bindEnvironmentVariables() error {
	var errs []error

	ai, db, logger, search := AIConfig{}, DBConfig{}, LoggerConfig{}, SearchConfig{}

	if err := ai.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("AIConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := search.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("SearchConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.AI.validate(); err != nil {
		errs = append(errs, fmt.Errorf("AIConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Search.validate(); err != nil {
		errs = append(errs, fmt.Errorf("SearchConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
