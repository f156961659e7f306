// Package config loads the command line configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFS     = "fs"
	StoreS3     = "s3"
)

// Config holds settings for the videoimport command.
type Config struct {
	Store     string `env:"VIDEO_STORE,default=fs"`
	BlobDir   string `env:"VIDEO_BLOB_DIR,default=./blobs"`
	Bucket    string `env:"VIDEO_S3_BUCKET"`
	Endpoint  string `env:"VIDEO_S3_ENDPOINT"`
	Region    string `env:"VIDEO_S3_REGION,default=eu-central-1"`
	AccessKey string `env:"VIDEO_S3_ACCESS_KEY"`
	SecretKey string `env:"VIDEO_S3_SECRET_KEY"`
	Prototype string `env:"VIDEO_PROTOTYPE"`
	ChunkSize int    `env:"VIDEO_CHUNK_SIZE,default=65536"`
	Debug     bool   `env:"DEBUG,default=false"`
}

// Load reads dotenv files that exist, then the process environment.
// Variables already set in the environment win over dotenv values.
func Load(dotenv ...string) (*Config, error) {
	for _, path := range dotenv {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return FromEnvSet(es)
}

// FromEnvSet builds a Config from explicit variables.
func FromEnvSet(es env.EnvSet) (*Config, error) {
	var c Config
	if err := env.Unmarshal(es, &c); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the selected store is fully configured.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreFS:
		if c.BlobDir == "" {
			return errors.New("config: VIDEO_BLOB_DIR is required for the fs store")
		}
	case StoreS3:
		if c.Bucket == "" {
			return errors.New("config: VIDEO_S3_BUCKET is required for the s3 store")
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk size must be positive, got %d", c.ChunkSize)
	}
	return nil
}
