package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := s.SaveDocument("10-tips-for-better-sleep", []byte("---\ntitle: x\n---\n\nbody"))
	if err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	if want := filepath.Join(dir, "10-tips-for-better-sleep.md"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if !s.HasFile(path) {
		t.Fatalf("expected %s to exist", path)
	}

	if _, err := s.SaveDocument("10-tips-for-better-sleep", []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want overwritten", data)
	}

	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats: %v", err)
	}
	if stats.SizeBytes != int64(len("second")) {
		t.Errorf("size = %d", stats.SizeBytes)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestPathForRejectsTraversal(t *testing.T) {
	s := &Storage{Dir: t.TempDir()}
	for _, name := range []string{"", ".", "..", "../escape", `a\b`} {
		if _, err := s.PathFor(name); err == nil {
			t.Errorf("PathFor(%q) expected error", name)
		}
	}
}

func TestHasFileMissing(t *testing.T) {
	s := &Storage{Dir: t.TempDir()}
	if s.HasFile(filepath.Join(s.Dir, "nope.md")) {
		t.Error("HasFile reported a missing file")
	}
}
