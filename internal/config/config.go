package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyAPIURL        = "api_url"
	KeyDatamonkeyURL = "datamonkey_url"
	KeyRegistryURL   = "registry_url"
	KeyRegistryFile  = "registry_file"
	KeyCatalogRepo   = "catalog_repo"
	KeyHTTPTimeout   = "http_timeout"
	KeyLogFile       = "log_file"
	KeyVerbose       = "verbose"
)

// Settings is a typed snapshot of the loaded configuration.
type Settings struct {
	APIURL        string
	DatamonkeyURL string
	RegistryURL   string
	RegistryFile  string
	CatalogRepo   string
	HTTPTimeout   time.Duration
	LogFile       string
	Verbose       bool
}

// Dir returns the path to the config directory (~/.dmchat/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.dmchat/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from .env, the config file and environment.
func Load() {
	// A .env in the working directory is optional.
	_ = godotenv.Load()

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyAPIURL, "http://localhost:3000")
	viper.SetDefault(KeyDatamonkeyURL, "http://localhost:9300")
	viper.SetDefault(KeyRegistryURL, "")
	viper.SetDefault(KeyRegistryFile, "")
	viper.SetDefault(KeyCatalogRepo, branding.RegistryRepoURL())
	viper.SetDefault(KeyHTTPTimeout, "30s")
	viper.SetDefault(KeyLogFile, filepath.Join(Dir(), "logs", branding.CLIName()+".log"))
	viper.SetDefault(KeyVerbose, false)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the typed settings. Load must have been called.
func Current() Settings {
	timeout := viper.GetDuration(KeyHTTPTimeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return Settings{
		APIURL:        viper.GetString(KeyAPIURL),
		DatamonkeyURL: viper.GetString(KeyDatamonkeyURL),
		RegistryURL:   viper.GetString(KeyRegistryURL),
		RegistryFile:  viper.GetString(KeyRegistryFile),
		CatalogRepo:   viper.GetString(KeyCatalogRepo),
		HTTPTimeout:   timeout,
		LogFile:       viper.GetString(KeyLogFile),
		Verbose:       viper.GetBool(KeyVerbose),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
