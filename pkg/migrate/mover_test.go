package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

// ============== LocalMover Tests ==============

func TestLocalMover_Exists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	writeFile(t, path, "content")

	mover := NewLocalMover(4096)
	ctx := context.Background()

	exists, err := mover.Exists(ctx, path)
	if err != nil {
		t.Fatalf("Exists() error: %v", err)
	}
	if !exists {
		t.Error("Exists() = false for an existing file")
	}

	exists, err = mover.Exists(ctx, filepath.Join(dir, "nope.txt"))
	if err != nil {
		t.Fatalf("Exists() error: %v", err)
	}
	if exists {
		t.Error("Exists() = true for a missing file")
	}
}

func TestLocalMover_Stat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	writeFile(t, path, "12345")

	mover := NewLocalMover(4096)
	size, err := mover.Stat(context.Background(), path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if size != 5 {
		t.Errorf("Stat() = %d, want 5", size)
	}
}

func TestLocalMover_Move(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.txt")
	destination := filepath.Join(dir, "dest", "moved.txt")
	writeFile(t, source, "payload")

	mover := NewLocalMover(4096)
	ctx := context.Background()

	if err := mover.MkdirAll(ctx, filepath.Dir(destination)); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	if err := mover.Move(ctx, source, destination); err != nil {
		t.Fatalf("Move() error: %v", err)
	}

	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Error("source should be gone after move")
	}
	if got := readFile(t, destination); got != "payload" {
		t.Errorf("destination content = %q", got)
	}
}

func TestLocalMover_MoveNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.txt")
	destination := filepath.Join(dir, "dest.txt")
	writeFile(t, source, "new")
	writeFile(t, destination, "precious")

	mover := NewLocalMover(4096)
	err := mover.Move(context.Background(), source, destination)
	if err == nil {
		t.Fatal("Move() should fail when destination exists")
	}
	if !errors.Is(err, models.ErrDestinationExists) {
		t.Errorf("error = %v, want ErrDestinationExists", err)
	}

	// Both files untouched
	if got := readFile(t, destination); got != "precious" {
		t.Errorf("destination was overwritten: %q", got)
	}
	if got := readFile(t, source); got != "new" {
		t.Errorf("source was disturbed: %q", got)
	}
}

func TestLocalMover_CopyFallbackPreservesModTime(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.txt")
	destination := filepath.Join(dir, "copy.txt")
	writeFile(t, source, "payload")

	info, err := os.Stat(source)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	mover := NewLocalMover(4096)
	if err := mover.copyFile(context.Background(), source, destination); err != nil {
		t.Fatalf("copyFile() error: %v", err)
	}

	copied, err := os.Stat(destination)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !copied.ModTime().Equal(info.ModTime()) {
		t.Errorf("mod time = %v, want %v", copied.ModTime(), info.ModTime())
	}
	if got := readFile(t, destination); got != "payload" {
		t.Errorf("copied content = %q", got)
	}
}

func TestLocalMover_RemoveEmptyDir(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	occupied := filepath.Join(dir, "occupied")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	writeFile(t, filepath.Join(occupied, "file.txt"), "x")

	mover := NewLocalMover(4096)
	ctx := context.Background()

	removed, err := mover.RemoveEmptyDir(ctx, empty)
	if err != nil {
		t.Fatalf("RemoveEmptyDir() error: %v", err)
	}
	if !removed {
		t.Error("empty directory should be removed")
	}

	removed, err = mover.RemoveEmptyDir(ctx, occupied)
	if err != nil {
		t.Fatalf("RemoveEmptyDir() error: %v", err)
	}
	if removed {
		t.Error("non-empty directory must never be removed")
	}
	if _, err := os.Stat(occupied); err != nil {
		t.Errorf("non-empty directory is gone: %v", err)
	}
}
