// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded with //go:embed; deployments that rebrand the
// client edit that file and rebuild.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	RegistryRepoURL string `yaml:"registry_repo_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:         "dmchat",
			DisplayName:     "Datamonkey Chat",
			Description:     "Client for running HyPhy analyses and browsing their visualizations",
			HomeDir:         ".dmchat",
			EnvPrefix:       "DMCHAT",
			RegistryRepoURL: "https://github.com/veg/hyphy-eye.git",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "dmchat").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".dmchat").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "DMCHAT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// RegistryRepoURL returns the default git URL of the capability registry.
func RegistryRepoURL() string { load(); return defaults.RegistryRepoURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("home") → "DMCHAT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
