package userdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Preferences represents user-wide defaults stored in preferences.yaml.
type Preferences struct {
	OutputFormat string `yaml:"output_format,omitempty"`
	Color        bool   `yaml:"color,omitempty"`
	Verbose      bool   `yaml:"verbose,omitempty"`

	// ActiveSession is the chat session the client resumes on start.
	ActiveSession string `yaml:"active_session,omitempty"`

	// Extras holds arbitrary user-defined fields.
	Extras map[string]interface{} `yaml:",inline"`
}

// LoadPreferences reads and parses preferences.yaml.
// A missing file yields empty preferences.
func LoadPreferences() (*Preferences, error) {
	path, err := GetPreferencesPath()
	if err != nil {
		return nil, err
	}
	return loadPreferencesAt(path)
}

// SavePreferences writes preferences.yaml.
func SavePreferences(p *Preferences) error {
	path, err := GetPreferencesPath()
	if err != nil {
		return err
	}
	return savePreferencesAt(path, p)
}

func loadPreferencesAt(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Preferences{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	return &p, nil
}

// savePreferencesAt writes through a temp file so readers never see a
// partially written document.
func savePreferencesAt(path string, p *Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPermNormal); err != nil {
		return fmt.Errorf("creating userdata directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePermSecure); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalizing preferences: %w", err)
	}
	return nil
}

// ActiveSessionStore persists the active session pointer in preferences.yaml.
// Other preference keys are preserved on write.
type ActiveSessionStore struct {
	path string
}

// NewActiveSessionStore returns a store backed by the default preferences path.
func NewActiveSessionStore() (*ActiveSessionStore, error) {
	path, err := GetPreferencesPath()
	if err != nil {
		return nil, err
	}
	return &ActiveSessionStore{path: path}, nil
}

// NewActiveSessionStoreAt returns a store backed by the file at path.
func NewActiveSessionStoreAt(path string) *ActiveSessionStore {
	return &ActiveSessionStore{path: path}
}

// Get returns the persisted session id, if any.
func (s *ActiveSessionStore) Get() (string, bool, error) {
	p, err := loadPreferencesAt(s.path)
	if err != nil {
		return "", false, err
	}
	id := strings.TrimSpace(p.ActiveSession)
	return id, id != "", nil
}

// Set persists id as the active session.
func (s *ActiveSessionStore) Set(id string) error {
	return s.update(func(p *Preferences) { p.ActiveSession = id })
}

// Clear removes the active session.
func (s *ActiveSessionStore) Clear() error {
	return s.update(func(p *Preferences) { p.ActiveSession = "" })
}

func (s *ActiveSessionStore) update(fn func(*Preferences)) error {
	p, err := loadPreferencesAt(s.path)
	if err != nil {
		return err
	}
	fn(p)
	return savePreferencesAt(s.path, p)
}
