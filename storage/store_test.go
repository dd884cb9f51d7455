package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/raushankrgupta/virtual-try-on/config"
)

func TestTheme_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	for _, want := range []bool{true, false, true} {
		if err := SaveTheme(ctx, NewFileStore(path), ThemeKey, want); err != nil {
			t.Fatalf("SaveTheme() error = %v", err)
		}

		// A fresh store over the same file stands in for a page reload
		got, err := LoadTheme(ctx, NewFileStore(path), ThemeKey)
		if err != nil {
			t.Fatalf("LoadTheme() error = %v", err)
		}
		if got != want {
			t.Errorf("LoadTheme() = %v, want %v", got, want)
		}
	}

	raw, ok, err := NewFileStore(path).Get(ctx, ThemeKey)
	if err != nil || !ok {
		t.Fatalf("Get() = %q, %v, %v", raw, ok, err)
	}
	if raw != "true" {
		t.Errorf("Expected boolean-encoded value 'true', got %q", raw)
	}
}

func TestLoadTheme_Defaults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value *string
		want  bool
	}{
		{name: "missing key", value: nil, want: false},
		{name: "stored true", value: strPtr("true"), want: true},
		{name: "stored false", value: strPtr("false"), want: false},
		{name: "malformed value", value: strPtr("yes please"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			if tt.value != nil {
				s.Set(ctx, ThemeKey, *tt.value)
			}
			got, err := LoadTheme(ctx, s, ThemeKey)
			if err != nil {
				t.Fatalf("LoadTheme() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("LoadTheme() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileStore_KeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s := NewFileStore(path)

	if err := s.Set(ctx, ThemeKeyFor("a"), "true"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, ThemeKeyFor("b"), "false"); err != nil {
		t.Fatal(err)
	}

	for key, want := range map[string]string{"darkMode:a": "true", "darkMode:b": "false"} {
		got, ok, err := s.Get(ctx, key)
		if err != nil || !ok || got != want {
			t.Errorf("Get(%s) = %q, %v, %v; want %q", key, got, ok, err, want)
		}
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("darkMode: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := NewFileStore(path).Get(context.Background(), ThemeKey); err == nil {
		t.Error("expected a parse error")
	}
}

func TestThemeKeyFor(t *testing.T) {
	if got := ThemeKeyFor(""); got != "darkMode" {
		t.Errorf("ThemeKeyFor(\"\") = %s", got)
	}
	if got := ThemeKeyFor("abc"); got != "darkMode:abc" {
		t.Errorf("ThemeKeyFor(abc) = %s", got)
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.PrefsConfig{Backend: "file", File: filepath.Join(t.TempDir(), "p.yaml")})
	if err != nil {
		t.Fatalf("New(file) error = %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Expected *FileStore, got %T", s)
	}

	s, err = New(ctx, config.PrefsConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("New(memory) error = %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Expected *MemoryStore, got %T", s)
	}

	if _, err := New(ctx, config.PrefsConfig{Backend: "etcd"}); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}

func strPtr(s string) *string { return &s }
