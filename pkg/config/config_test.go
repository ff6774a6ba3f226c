package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != "default" {
		t.Fatalf("expected default theme, got %q", cfg.Theme)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	want := Config{NotesDir: "/tmp/notes", Theme: "solarized", CacheRoot: "/tmp/cache"}

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadCorruptFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("notes_dir: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCacheDirHonorsOverride(t *testing.T) {
	dir, err := CacheDir(Config{CacheRoot: "/custom/cache"})
	if err != nil {
		t.Fatalf("cache dir: %v", err)
	}
	if dir != "/custom/cache" {
		t.Fatalf("got %q", dir)
	}
}

func TestSaveLastNoteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := SaveLastNote(dir, "/notes/a.md"); err != nil {
		t.Fatalf("save last note: %v", err)
	}
	if got := LoadLastNote(dir); got != "/notes/a.md" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadLastNoteMissingReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	if got := LoadLastNote(dir); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
