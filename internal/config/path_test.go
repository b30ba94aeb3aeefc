package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home directory: %v", err)
	}
	t.Setenv("DUIT_TEST_DIR", "/var/lib/duit")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty stays empty", path: "", want: ""},
		{name: "bare tilde", path: "~", want: home},
		{name: "tilde prefix", path: "~/.local/share/duit/duit.db", want: filepath.Join(home, ".local/share/duit/duit.db")},
		{name: "env variable", path: "$DUIT_TEST_DIR/duit.db", want: "/var/lib/duit/duit.db"},
		{name: "plain path untouched", path: "/tmp/duit.db", want: "/tmp/duit.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
