// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// first Load in a process reads the default .env file when one exists, then
// every call parses the environment into the given struct based on its
// field tags.
//
//	type Config struct {
//	    Path string `env:"AUTH_DATA_PATH" envDefault:"./data"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    ...
//	}
package config
