package userdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetUserdataRoot_EnvOverride(t *testing.T) {
	t.Setenv("DMCHAT_USERDATA", "/tmp/test-userdata")
	root, err := GetUserdataRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != "/tmp/test-userdata" {
		t.Errorf("expected /tmp/test-userdata, got %s", root)
	}
}

func TestGetUserdataRoot_Default(t *testing.T) {
	t.Setenv("DMCHAT_USERDATA", "")
	root, err := GetUserdataRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".dmchat", "userdata")
	if root != expected {
		t.Errorf("expected %s, got %s", expected, root)
	}
}

func TestGetPreferencesPath(t *testing.T) {
	t.Setenv("DMCHAT_USERDATA", "/tmp/ud")
	p, err := GetPreferencesPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "/tmp/ud/preferences.yaml" {
		t.Errorf("expected /tmp/ud/preferences.yaml, got %s", p)
	}
}

func TestRegistryRepoExists(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("DMCHAT_REGISTRY_REPO", filepath.Join(tmp, "missing"))
	exists, err := RegistryRepoExists()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected missing registry repo")
	}

	t.Setenv("DMCHAT_REGISTRY_REPO", tmp)
	exists, err = RegistryRepoExists()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected registry repo to exist")
	}
}
