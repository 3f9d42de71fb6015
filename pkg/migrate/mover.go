package migrate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// Mover is the filesystem mutation surface used by commit runs.
// Moves never overwrite an existing destination.
type Mover interface {
	// Exists checks if a path exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns the size of a file
	Stat(ctx context.Context, path string) (int64, error)

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Move relocates a file; fails with models.ErrDestinationExists when
	// the destination is already occupied
	Move(ctx context.Context, source, destination string) error
}

// LocalMover implements Mover on the local filesystem
type LocalMover struct {
	bufferSize int
}

// NewLocalMover creates a mover with the given copy buffer size, used
// when a move has to fall back to copy-and-remove across filesystems.
func NewLocalMover(bufferSize int) *LocalMover {
	if bufferSize < 4096 {
		bufferSize = 65536
	}
	return &LocalMover{bufferSize: bufferSize}
}

// Exists checks if a path exists
func (m *LocalMover) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Stat returns the size of a file
func (m *LocalMover) Stat(ctx context.Context, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Size(), nil
}

// MkdirAll creates a directory and all necessary parents
func (m *LocalMover) MkdirAll(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// Move relocates a file without ever overwriting the destination.
// Rename is tried first; when source and destination live on different
// filesystems the move degrades to copy-then-remove.
func (m *LocalMover) Move(ctx context.Context, source, destination string) error {
	if _, err := os.Lstat(destination); err == nil {
		return fmt.Errorf("%w: %s", models.ErrDestinationExists, destination)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check destination: %w", err)
	}

	if err := os.Rename(source, destination); err == nil {
		return nil
	} else if _, ok := err.(*os.LinkError); !ok {
		return fmt.Errorf("failed to move file: %w", err)
	}

	// Rename across filesystems fails with a LinkError; copy instead
	if err := m.copyFile(ctx, source, destination); err != nil {
		return err
	}
	if err := os.Remove(source); err != nil {
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}
	return nil
}

// copyFile copies source to destination, preserving the modification time
func (m *LocalMover) copyFile(ctx context.Context, source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	buf := make([]byte, m.bufferSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		out.Close()
		os.Remove(destination)
		return fmt.Errorf("failed to copy file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(destination)
		return fmt.Errorf("failed to finish copy: %w", err)
	}

	if err := os.Chtimes(destination, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time: %w", err)
	}

	return nil
}

// RemoveEmptyDir removes a directory only when it is empty
func (m *LocalMover) RemoveEmptyDir(ctx context.Context, path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to remove directory: %w", err)
	}
	return true, nil
}

var _ Mover = (*LocalMover)(nil)

// parentDir returns the directory containing path
func parentDir(path string) string {
	return filepath.Dir(path)
}
