package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Storage     StorageConfig     `mapstructure:"storage"`
	S3          S3Config          `mapstructure:"s3"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StorageConfig selects and configures the collection slot backend.
// Backend is one of: file, sqlite, mongo, s3.
type StorageConfig struct {
	Backend  string `mapstructure:"backend"`
	FilePath string `mapstructure:"file_path"`
	DBPath   string `mapstructure:"db_path"`
	MongoURI string `mapstructure:"mongo_uri"`
	MongoDB  string `mapstructure:"mongo_db"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// SuggestionsConfig configures the remote exercise catalog fetch.
type SuggestionsConfig struct {
	CatalogURL string `mapstructure:"catalog_url"`
	PageLimit  int    `mapstructure:"page_limit"`
	SampleSize int    `mapstructure:"sample_size"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	viper.AutomaticEnv()
	// Use replacer for nested keys e.g., server.address -> SERVER_ADDRESS,
	// storage.file_path -> STORAGE_FILE_PATH
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// --- Set default values ---
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("storage.file_path", "data/fitcrm_clients.json")
	viper.SetDefault("storage.db_path", "data/fitcrm.db")
	viper.SetDefault("storage.mongo_uri", "mongodb://localhost:27017")
	viper.SetDefault("storage.mongo_db", "fitcrm")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("suggestions.catalog_url", "https://wger.de/api/v2")
	viper.SetDefault("suggestions.page_limit", 50)
	viper.SetDefault("suggestions.sample_size", 5)

	// --- Read Config File ---
	err = viper.ReadInConfig()
	// A missing config file is fine: defaults plus env vars are enough.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
