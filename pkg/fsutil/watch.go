package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultPollInterval is the watcher's polling period when none is given.
const DefaultPollInterval = 250 * time.Millisecond

// Watcher polls a source file and yields its content each time it changes.
// Touches that leave the content unchanged are skipped. A file that briefly
// disappears, as happens when an editor saves by rename, is waited for.
type Watcher struct {
	path     string
	interval time.Duration
	info     *FileInfo
	content  []byte
}

// NewWatcher creates a Watcher for path. A non-positive interval selects
// DefaultPollInterval.
func NewWatcher(path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{path: path, interval: interval}
}

// Next returns the file content. The first call returns immediately; later
// calls block until the content differs from the previous result or ctx is
// done.
func (w *Watcher) Next(ctx context.Context) ([]byte, error) {
	if w.info == nil {
		content, info, err := ReadFile(ctx, w.path)
		if err != nil {
			return nil, err
		}
		w.info, w.content = info, content
		return content, nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("watch %s: %w", w.path, ctx.Err())
		case <-ticker.C:
		}

		modified, err := CheckModifiedQuick(ctx, w.info)
		if err != nil {
			return nil, err
		}
		if !modified {
			continue
		}

		content, info, err := ReadFile(ctx, w.path)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		w.info = info
		if bytes.Equal(content, w.content) {
			continue
		}
		w.content = content
		return content, nil
	}
}
