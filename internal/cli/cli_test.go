package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/yaklabco/texpreview/internal/cli"
	"github.com/yaklabco/texpreview/internal/configloader"
	"github.com/yaklabco/texpreview/pkg/fsutil"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}
	if cmd.Use != "texpreview" {
		t.Errorf("expected Use to be 'texpreview', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"render", "diff", "blocks", "locate", "watch", "build", "rules", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}
		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"render": {"output", "standalone", "flavor", "strict"},
		"diff":   {"format", "flavor", "compact"},
		"blocks": {"format", "flavor", "compact"},
		"locate": {"line", "block", "ratio", "format", "compact"},
		"watch":  {"output", "standalone", "flavor", "interval"},
		"build":  {"out-dir", "standalone", "flavor", "strict", "jobs", "exclude", "follow-symlinks"},
		"rules":  {"format", "rule-format"},
		"init":   {"force", "full", "restore", "format", "output"},
	}

	for name, flags := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			subCmd, _, err := cmd.Find([]string{name})
			if err != nil {
				t.Fatalf("%s command not found: %v", name, err)
			}
			for _, flag := range flags {
				if subCmd.Flags().Lookup(flag) == nil {
					t.Errorf("expected %s flag --%s to exist", name, flag)
				}
			}
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flag := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag --%s to exist", flag)
		}
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"generic", errors.New("boom"), cli.ExitFailure},
		{"block failures", fmt.Errorf("%w: 1 of 3", cli.ErrBlockFailures), cli.ExitFailure},
		{"invalid usage", fmt.Errorf("%w: bad flag", cli.ErrInvalidUsage), cli.ExitInvalidUsage},
		{"config", errors.Join(errors.New("failed to load configuration"), &configloader.ValidationError{Field: "flavor"}), cli.ExitConfigError},
		{"missing file", fmt.Errorf("%w: paper.tex", fsutil.ErrNotFound), cli.ExitIOError},
		{"directory", fmt.Errorf("%w: src", fsutil.ErrIsDirectory), cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
