// Package config reads the function settings from the environment.
//
// A `.env` file in the working directory is loaded first when present, which
// is handy when running against DynamoDB local.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the function settings.
//
// Keys are the lowercased environment variable names, e.g. TABLE_NAME -> table_name.
type Config struct {
	TableName string `koanf:"table_name" validate:"required"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"dynamodb_endpoint" validate:"omitempty,url"`
	LogLevel  string `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := &Config{}
	err = k.Unmarshal("", cfg)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	err = validator.New().Struct(cfg)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// AWS loads the SDK configuration. An empty Region leaves the choice to the
// SDK default chain (AWS_REGION on Lambda).
func (c *Config) AWS(ctx context.Context) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
