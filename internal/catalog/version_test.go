package catalog

import (
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
		wantErr  bool
	}{
		{"older patch", "1.4.0", "1.4.1", -1, false},
		{"older minor", "1.3.0", "1.4.0", -1, false},
		{"equal", "1.4.0", "1.4.0", 0, false},
		{"newer major", "2.0.0", "1.4.0", 1, false},
		{"v prefix", "v1.4.0", "1.4.0", 0, false},
		{"prerelease less than release", "1.4.0-rc.1", "1.4.0", -1, false},
		{"invalid a", "latest", "1.4.0", 0, true},
		{"invalid b", "1.4.0", "dev", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CompareVersions(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}
