package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds the source files under opts.Paths. Explicit file arguments
// are always kept; files found by walking directories must carry one of the
// configured extensions. Hidden files and directories are skipped. The result
// is sorted, absolute and free of duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.extensions(),
		excludes:   excludes,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]bool),
	}

	for _, input := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if !d.excluded(path) {
				d.add(path)
			}
			continue
		}
		if err := d.walk(ctx, path); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	workDir    string
	extensions []string
	excludes   []glob.Glob
	follow     bool
	seen       map[string]bool
	files      []string
}

func (d *discoverer) add(path string) {
	if d.seen[path] {
		return
	}
	d.seen[path] = true
	d.files = append(d.files, path)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || d.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !d.follow || d.excluded(path) {
					return nil
				}
				// Walk the target; WalkDir does not descend into a symlink root.
				return d.walk(ctx, target)
			}
		}

		if d.hasExtension(path) && !d.excluded(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (d *discoverer) hasExtension(path string) bool {
	return slices.Contains(d.extensions, strings.ToLower(filepath.Ext(path)))
}

// excluded matches a path, relative to the working directory, and its base
// name against the exclude patterns.
func (d *discoverer) excluded(path string) bool {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, g := range d.excludes {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}
