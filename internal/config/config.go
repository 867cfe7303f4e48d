package config

import (
	"os"
	"strings"

	"github.com/RoyalOrangefire/GopherMatch/pkg/path"
	"github.com/joho/godotenv"
)

type IConfig interface {
	Get(key string) string
}

type Config struct {
	Key map[string]string
	Env string
}

// NewConfig loads configuration for the given environment (DEV, TEST, ...).
// Keys are read from the process environment, optionally seeded from a .env
// file found at the repository root. Environment-specific values are looked
// up with the ENV_ prefix first.
func NewConfig(env string) (*Config, error) {
	env = strings.ToUpper(env)

	basePath, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// .env is optional; CI and production set real environment variables
	if root, err := path.FindRoot(basePath, ".env", false); err == nil {
		if err := godotenv.Load(root + "/.env"); err != nil {
			return nil, err
		}
	}

	return &Config{
		Key: map[string]string{
			"MYSQL_DB_NAME":  getEnv(env+"_MYSQL_DB_NAME", "gophermatch"),
			"MYSQL_USER":     getEnv(env+"_MYSQL_USER", "root"),
			"MYSQL_PASSWORD": getEnv(env+"_MYSQL_PASSWORD", ""),
			"MYSQL_HOST":     getEnv(env+"_MYSQL_HOST", "localhost"),
			"MYSQL_PORT":     getEnv(env+"_MYSQL_PORT", "3306"),
			"REDIS_HOST":     getEnv(env+"_REDIS_HOST", "localhost"),
			"REDIS_PORT":     getEnv(env+"_REDIS_PORT", "6379"),
			"JWT_SECRET":     getEnv(env+"_JWT_SECRET", ""),
			"S3_BUCKET":      getEnv(env+"_S3_BUCKET", "gophermatch-pictures"),
			"AWS_REGION":     getEnv("AWS_REGION", "us-east-2"),
			"LOG_LEVEL":      getEnv("LOG_LEVEL", "info"),
			"LOG_FORMAT":     getEnv("LOG_FORMAT", "text"),
			"PORT":           getEnv("PORT", "8080"),
		},
		Env: env,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) Get(key string) string {
	return c.Key[key]
}
