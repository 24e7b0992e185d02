package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/httpfactory/logger"
)

// KeyDelimiter separates levels in configuration keys. The section binder
// depends on this being ":".
const KeyDelimiter = ":"

// NewSource returns an empty configuration tree with the key delimiter this
// module expects.
func NewSource() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))
}

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string
	EnvFile    string
}

// Option is a functional option for Load.
type Option func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load assembles the configuration tree for an application. It reads the
// config file (explicit path or searched in standard locations), loads a
// .env file when one exists, and enables environment variable overrides
// with ":" mapped to "_" (e.g. HTTPCLIENT_BILLING_CLIENT_TIMEOUT).
func Load(appName string, opts ...Option) (*viper.Viper, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.ConfigFile == "" {
		lc.ConfigFile = findConfigFile(appName)
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findEnvFile(appName)
	}

	if lc.EnvFile != "" && exists(lc.EnvFile) {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			logger.Warn("loading .env file failed", logger.Fields(
				"path", lc.EnvFile,
				logger.FieldError, err.Error(),
			))
		}
	}

	v := NewSource()
	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", lc.ConfigFile, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(KeyDelimiter, "_"))

	return v, nil
}

// findConfigFile searches for config.yml in standard locations.
func findConfigFile(appName string) string {
	searchPaths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", appName),
		fmt.Sprintf("./config/%s/config.yml", appName),
		"./config/config.yml",
		"./config.yml",
	}
	for _, path := range searchPaths {
		if exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files in standard locations.
func findEnvFile(appName string) string {
	searchPaths := []string{
		fmt.Sprintf("./.env.%s", appName),
		"./.env",
		"./config/.env",
	}
	for _, path := range searchPaths {
		if exists(path) {
			return path
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
