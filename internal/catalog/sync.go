package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/datamonkey-labs/dmchat/internal/branding"
	"github.com/datamonkey-labs/dmchat/internal/config"
	"github.com/datamonkey-labs/dmchat/internal/userdata"
	"go.yaml.in/yaml/v3"
)

const (
	// RegistryFileName is the registry document at the root of the repo.
	RegistryFileName = "registry.json"

	// DefaultMaxAge is how long a synced registry counts as current.
	DefaultMaxAge = 7 * 24 * time.Hour

	syncRecordFile = ".registry-sync.yaml"
)

// ErrNoRegistryDocument is returned when a clone or pull leaves the repo
// without a registry.json.
var ErrNoRegistryDocument = errors.New("registry repository has no " + RegistryFileName)

// RepoURL returns the registry repository URL. DMCHAT_CATALOG_REPO_URL wins
// over the catalog_repo config key, which wins over the branding default.
func RepoURL() string {
	if v := os.Getenv(branding.EnvVar("CATALOG_REPO_URL")); v != "" {
		return v
	}
	if v := config.Get(config.KeyCatalogRepo); v != "" {
		return v
	}
	return branding.RegistryRepoURL()
}

// RegistryPath returns the registry document inside a synced repo.
func RegistryPath(repoDir string) string {
	return filepath.Join(repoDir, RegistryFileName)
}

// Clone fetches the registry repo into targetDir. The previous checkout is
// replaced only once the new one is known to carry a registry document.
func Clone(targetDir string) error {
	if err := ensureGit(); err != nil {
		return err
	}

	staging := targetDir + ".tmp"
	_ = os.RemoveAll(staging)
	if err := os.MkdirAll(filepath.Dir(staging), userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	if err := git("", "clone", "--depth=1", RepoURL(), staging); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("cloning registry: %w", err)
	}
	if _, err := registryDigest(staging); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}

	if err := os.RemoveAll(targetDir); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("removing existing registry dir: %w", err)
	}
	if err := os.Rename(staging, targetDir); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("finalizing registry clone: %w", err)
	}
	return recordSync(targetDir)
}

// Update pulls the latest registry, cloning it first if needed.
func Update(repoDir string) error {
	if err := ensureGit(); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(repoDir, ".git")); os.IsNotExist(err) {
		return Clone(repoDir)
	}

	if err := git(repoDir, "pull", "--depth=1", "--rebase"); err != nil {
		return fmt.Errorf("pulling registry updates: %w", err)
	}
	return recordSync(repoDir)
}

// Freshness describes a synced registry relative to its last sync.
type Freshness struct {
	SyncedAt time.Time
	// Modified is set when registry.json no longer matches the synced copy,
	// including when it has been removed.
	Modified bool
}

// Synced reports whether a sync has ever been recorded.
func (f Freshness) Synced() bool { return !f.SyncedAt.IsZero() }

// Stale reports whether the registry needs another sync.
func (f Freshness) Stale(maxAge time.Duration) bool {
	if !f.Synced() || f.Modified {
		return true
	}
	return time.Since(f.SyncedAt) > maxAge
}

// CheckFreshness reads the sync record in repoDir and compares it with the
// registry document on disk. A missing or unreadable record yields the zero
// Freshness.
func CheckFreshness(repoDir string) Freshness {
	rec, err := readSyncRecord(repoDir)
	if err != nil {
		return Freshness{}
	}
	digest, err := registryDigest(repoDir)
	return Freshness{
		SyncedAt: rec.SyncedAt,
		Modified: err != nil || digest != rec.Digest,
	}
}

// IsStale is shorthand for CheckFreshness(repoDir).Stale(maxAge).
func IsStale(repoDir string, maxAge time.Duration) bool {
	return CheckFreshness(repoDir).Stale(maxAge)
}

type syncRecord struct {
	SyncedAt time.Time `yaml:"synced_at"`
	Digest   string    `yaml:"digest"`
}

func recordSync(repoDir string) error {
	digest, err := registryDigest(repoDir)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(syncRecord{SyncedAt: time.Now().UTC().Truncate(time.Second), Digest: digest})
	if err != nil {
		return fmt.Errorf("encoding sync record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(repoDir, syncRecordFile), data, userdata.FilePermNormal); err != nil {
		return fmt.Errorf("writing sync record: %w", err)
	}
	return nil
}

func readSyncRecord(repoDir string) (syncRecord, error) {
	var rec syncRecord
	data, err := os.ReadFile(filepath.Join(repoDir, syncRecordFile))
	if err != nil {
		return rec, err
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	if rec.SyncedAt.IsZero() {
		return rec, fmt.Errorf("sync record has no timestamp")
	}
	return rec, nil
}

// registryDigest hashes the registry document in repoDir.
func registryDigest(repoDir string) (string, error) {
	data, err := os.ReadFile(RegistryPath(repoDir))
	if os.IsNotExist(err) {
		return "", ErrNoRegistryDocument
	}
	if err != nil {
		return "", fmt.Errorf("reading registry document: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func git(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w\n%s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
