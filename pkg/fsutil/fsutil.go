// Package fsutil provides the file system primitives used by texpreview:
// source reads with change detection, atomic output writes, config backups
// and polling of a source file for edits.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// FileInfo records the state of a source file when it was read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 of the content.
	Hash [32]byte
}

// ReadFile reads a file and returns its content with the state needed to
// detect later edits.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// CheckModified reports whether the file changed since info was taken. The
// mod time and size are compared first; when they match the content is
// re-hashed. A deleted file counts as modified.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	modified, err := CheckModifiedQuick(ctx, info)
	if err != nil || modified {
		return modified, err
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}

// CheckModifiedQuick compares only the mod time and size.
func CheckModifiedQuick(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	return !stat.ModTime().Equal(info.ModTime) || stat.Size() != info.Size, nil
}
