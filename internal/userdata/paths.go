package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/datamonkey-labs/dmchat/internal/branding"
)

// Directory and file name constants for the userdata convention.
const (
	UserdataDir     = "userdata"
	PreferencesFile = "preferences.yaml"
	RegistryRepoDir = "registry-repo"
)

// Permission constants.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// GetUserdataRoot returns the path to the userdata directory.
// It checks the DMCHAT_USERDATA environment variable first,
// then falls back to ~/.dmchat/userdata.
func GetUserdataRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("USERDATA")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir(), UserdataDir), nil
}

// GetPreferencesPath returns the path to preferences.yaml within userdata.
func GetPreferencesPath() (string, error) {
	root, err := GetUserdataRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, PreferencesFile), nil
}

// GetRegistryRepoRoot returns the path to the synced registry repo.
// Checks DMCHAT_REGISTRY_REPO first, then falls back to ~/.dmchat/registry-repo/.
func GetRegistryRepoRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("REGISTRY_REPO")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir(), RegistryRepoDir), nil
}

// RegistryRepoExists reports whether the registry repo has been synced.
func RegistryRepoExists() (bool, error) {
	root, err := GetRegistryRepoRoot()
	if err != nil {
		return false, err
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading registry directory: %w", err)
	}
	return info.IsDir(), nil
}
