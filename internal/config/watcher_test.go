package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pianoroll.toml")
	if err := os.WriteFile(path, []byte("[snap]\ngridMs = 100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore()
	if err := s.LoadFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	w, err := NewWatcher(s, path)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[snap]\ngridMs = 400\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if s.GridMs() == 400 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("expected grid 400 after reload, got %d", s.GridMs())
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pianoroll.toml")
	os.WriteFile(path, []byte("[snap]\ngridMs = 100\n"), 0o644)

	s := NewStore()
	s.LoadFile(path)
	w, err := NewWatcher(s, path)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	os.WriteFile(filepath.Join(dir, "other.toml"), []byte("[snap]\ngridMs = 999\n"), 0o644)
	time.Sleep(100 * time.Millisecond)
	if s.GridMs() != 100 {
		t.Errorf("sibling file should not reload, grid %d", s.GridMs())
	}
}
