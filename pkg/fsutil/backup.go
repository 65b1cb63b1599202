package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix is appended to a file's path to name its backup.
const BackupSuffix = ".bak"

// BackupPath returns the backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to its backup, replacing any older backup, and
// returns the backup path. It returns "" when path does not exist.
func CreateBackup(ctx context.Context, path string) (string, error) {
	content, info, err := ReadFile(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}

	backup := BackupPath(path)
	if err := WriteAtomic(ctx, backup, content, info.Mode.Perm()); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backup, nil
}

// RestoreBackup puts the backup of path back in place and removes it. It
// reports false when there is no backup.
func RestoreBackup(ctx context.Context, path string) (bool, error) {
	backup := BackupPath(path)
	content, info, err := ReadFile(ctx, backup)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, info.Mode.Perm()); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	if err := os.Remove(backup); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}
