package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Export   ExportConfig   `mapstructure:"export"`
	Session  SessionConfig  `mapstructure:"session"`
	Import   ImportConfig   `mapstructure:"import"`
	Database DatabaseConfig `mapstructure:"database"`
}

type StorageConfig struct {
	CardsFile string `mapstructure:"cards_file" validate:"required,cards_file"`
}

type ExportConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
	// MarkdownTemplate is optional; the embedded template is used when it is empty
	MarkdownTemplate string `mapstructure:"markdown_template" validate:"omitempty,deck_template"`
}

type SessionConfig struct {
	// Seed makes shuffles reproducible. 0 means a new seed for every run.
	Seed int64 `mapstructure:"seed"`
}

type ImportConfig struct {
	RetryAttempts  uint `mapstructure:"retry_attempts"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds" validate:"gt=0"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cardapp")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.cards_file", "cards.json")
	v.SetDefault("export.directory", "exports")
	v.SetDefault("export.markdown_template", "")
	v.SetDefault("session.seed", 0)
	v.SetDefault("import.retry_attempts", 3)
	v.SetDefault("import.timeout_seconds", 30)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")

	if err := v.BindEnv("storage.cards_file", "CARDAPP_CARDS_FILE"); err != nil {
		return nil, fmt.Errorf("failed to bind CARDAPP_CARDS_FILE environment variable: %w", err)
	}
	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
