package config

import (
	"fmt"

	"ctchen222/tictactoe-engine/internal/validator"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	ServiceName string   `yaml:"service-name" env:"SERVICE_NAME" env-default:"tictactoe-engine" validate:"required"`
	OTel        OTel     `yaml:"otel"`
	SelfPlay    SelfPlay `yaml:"self-play"`
}

type OTel struct {
	Enabled  bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint string `yaml:"endpoint" env:"OTEL_ENDPOINT" validate:"required_if=Enabled true"`
	Console  bool   `yaml:"console" env:"OTEL_CONSOLE" env-default:"false"`
}

type SelfPlay struct {
	Games    int    `yaml:"games" env:"SELFPLAY_GAMES" env-default:"10" validate:"min=1"`
	X        string `yaml:"x" env:"SELFPLAY_X" env-default:"hard" validate:"difficulty"`
	O        string `yaml:"o" env:"SELFPLAY_O" env-default:"hard" validate:"difficulty"`
	Workers  int    `yaml:"workers" env:"SELFPLAY_WORKERS" env-default:"4" validate:"min=1"`
	Parallel bool   `yaml:"parallel" env:"SEARCH_PARALLEL" env-default:"false"`
}

// Load reads the YAML file at path, when one is given, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := validator.GetValidator().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}
