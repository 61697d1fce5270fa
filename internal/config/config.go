// Package config resolves runtime settings from PARTNERHUB_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"partnerhub/internal/blob"
	"partnerhub/pkg/domain"
)

const envPrefix = "PARTNERHUB_"

// Storage selects and configures the document backend.
type Storage struct {
	Driver        domain.Driver `validate:"oneof=memory sqlite postgres mongo blob"`
	Key           string        `validate:"required"`
	SQLitePath    string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string
	Blob          blob.Config
}

// Config is the full runtime configuration.
type Config struct {
	Storage     Storage
	HTTPAddr    string `validate:"required"`
	LogLevel    string `validate:"oneof=debug info warn error"`
	SeedOnStart bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:     domain.DriverSQLite,
			Key:        domain.DefaultStorageKey,
			SQLitePath: "./partnerhub.db",
			Blob:       blob.Config{Driver: blob.DriverFilesystem, FSRoot: "./blobdata"},
		},
		HTTPAddr: ":8080",
		LogLevel: "info",
	}
}

// Load reads the given .env files (missing files are skipped; variables
// already in the environment win) and then resolves the environment.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv resolves the configuration through getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	get := func(name string) string { return strings.TrimSpace(getenv(envPrefix + name)) }
	setString := func(dst *string, name string) {
		if v := get(name); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, name string) error {
		v := get(name)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = b
		return nil
	}

	if v := get("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = domain.Driver(strings.ToLower(v))
	}
	setString(&cfg.Storage.Key, "STORAGE_KEY")
	setString(&cfg.Storage.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Storage.PostgresDSN, "POSTGRES_DSN")
	setString(&cfg.Storage.MongoURI, "MONGO_URI")
	setString(&cfg.Storage.MongoDatabase, "MONGO_DATABASE")
	if v := get("BLOB_DRIVER"); v != "" {
		cfg.Storage.Blob.Driver = blob.Driver(strings.ToLower(v))
	}
	setString(&cfg.Storage.Blob.FSRoot, "BLOB_FS_ROOT")
	setString(&cfg.Storage.Blob.S3.Bucket, "BLOB_S3_BUCKET")
	setString(&cfg.Storage.Blob.S3.Region, "BLOB_S3_REGION")
	setString(&cfg.Storage.Blob.S3.Endpoint, "BLOB_S3_ENDPOINT")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	if v := get("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if err := setBool(&cfg.Storage.Blob.S3.PathStyle, "BLOB_S3_PATH_STYLE"); err != nil {
		return Config{}, err
	}
	if err := setBool(&cfg.SeedOnStart, "SEED_ON_START"); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks enumerated settings and driver-specific requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Storage.Driver {
	case domain.DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("invalid config: %sPOSTGRES_DSN required for postgres driver", envPrefix)
		}
	case domain.DriverBlob:
		if c.Storage.Blob.Driver == blob.DriverS3 && c.Storage.Blob.S3.Bucket == "" {
			return fmt.Errorf("invalid config: %sBLOB_S3_BUCKET required for s3 blob driver", envPrefix)
		}
	}
	return nil
}
