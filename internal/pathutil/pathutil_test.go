package pathutil

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestResolveDatasetPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"empty", "", "", ErrEmptyPath},
		{"null byte", "a\x00b.csv", "", ErrInvalidPath},
		{"relative", "dataset.csv", "dataset.csv", nil},
		{"cleaned", "data/./raw/../dataset.csv", filepath.Join("data", "dataset.csv"), nil},
		{"parent kept", "../dataset.csv", filepath.Join("..", "dataset.csv"), nil},
		{"home", "~", xdg.Home, nil},
		{"under home", "~/data/dataset.csv", filepath.Join(xdg.Home, "data", "dataset.csv"), nil},
		{"tilde in name", "~dataset.csv", "~dataset.csv", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDatasetPath(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveDatasetPath(%q) err = %v, want %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveDatasetPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
