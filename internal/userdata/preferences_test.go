package userdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestActiveSessionStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", PreferencesFile)
	s := NewActiveSessionStoreAt(path)

	if _, ok, err := s.Get(); err != nil || ok {
		t.Fatalf("Get on missing file = (ok=%v, err=%v), want absent", ok, err)
	}

	if err := s.Set("sess-42"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	id, ok, err := s.Get()
	if err != nil || !ok || id != "sess-42" {
		t.Fatalf("Get = (%q, %v, %v), want sess-42", id, ok, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != FilePermSecure {
		t.Errorf("perm = %o, want %o", info.Mode().Perm(), FilePermSecure)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := s.Get(); ok {
		t.Error("expected no active session after Clear")
	}
}

func TestActiveSessionStore_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), PreferencesFile)
	content := "output_format: json\ncolor: true\ntheme: dark\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewActiveSessionStoreAt(path)
	if err := s.Set("abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"output_format: json", "theme: dark", "active_session: abc"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("preferences missing %q:\n%s", want, data)
		}
	}
}

func TestActiveSessionStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), PreferencesFile)
	if err := os.WriteFile(path, []byte("active_session: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewActiveSessionStoreAt(path).Get(); err == nil {
		t.Fatal("expected parse error for corrupt preferences")
	}
}
