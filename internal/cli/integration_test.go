package cli_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texpreview/internal/cli"
	"github.com/yaklabco/texpreview/pkg/reporter"
)

const threeBlocks = "Intro text.\n\n$$x=1$$\n\nMore text.\n"

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command against a private config file so that the
// project and environment layers cannot change the outcome.
func execute(ctx context.Context, t *testing.T, args ...string) result {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), ".texpreview.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("flavor: gfm\n"), 0o644))

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", cfgFile, "--color", "never"))

	err := cmd.ExecuteContext(ctx)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIntegration_Render(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", threeBlocks)
	res := execute(t.Context(), t, "render", doc)

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `<div class="tp-block" data-block="0" data-line="0"><p>Intro text.</p></div>`)
	assert.Contains(t, res.stdout, `<div class="math display">\[x=1\]</div>`)
	assert.Contains(t, res.stdout, `data-block="2" data-line="4"`)
	assert.NotContains(t, res.stdout, "<!DOCTYPE html>")
}

func TestIntegration_RenderStandaloneToFile(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", "\\title{Fast  Previews}\n\\begin{document}\nIntro text.\n\\end{document}\n")
	out := filepath.Join(t.TempDir(), "paper.html")

	res := execute(t.Context(), t, "render", doc, "-o", out, "--standalone", "--strict")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(page), "<!DOCTYPE html>"))
	assert.Contains(t, string(page), "<title>Fast Previews</title>")
	assert.Contains(t, string(page), `data-line="2"><p>Intro text.</p>`)
	assert.Contains(t, string(page), "mathjax")
}

func TestIntegration_RenderErrors(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", threeBlocks)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.tex")}, cli.ExitIOError},
		{"directory", []string{"render", t.TempDir()}, cli.ExitIOError},
		{"bad flavor", []string{"render", doc, "--flavor", "wiki"}, cli.ExitConfigError},
		{"unknown flag", []string{"render", doc, "--nope"}, cli.ExitInvalidUsage},
		{"bad format", []string{"blocks", doc, "--format", "xml"}, cli.ExitInvalidUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t.Context(), t, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, tt.code, cli.ExitCode(res.err))
		})
	}
}

func TestIntegration_BlocksJSON(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", threeBlocks)
	res := execute(t.Context(), t, "blocks", doc, "--format", "json")
	require.NoError(t, res.err)

	var out reporter.JSONBlocks
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	require.Len(t, out.Blocks, 3)
	assert.Equal(t, doc, out.Path)
	assert.Equal(t, "$$x=1$$", out.Blocks[1].Text)
	assert.Equal(t, 2, out.Blocks[1].StartLine)
	assert.Equal(t, "<p>More text.</p>", out.Blocks[2].HTML)
}

func TestIntegration_BlocksText(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", threeBlocks)
	res := execute(t.Context(), t, "blocks", doc)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "(3 blocks)")
	assert.Contains(t, res.stdout, "Intro text.")
	assert.Contains(t, res.stdout, "$$x=1$$")
}

func TestIntegration_DiffJSON(t *testing.T) {
	t.Parallel()

	oldDoc := writeDoc(t, "old.tex", "A\n\nB\n\nC\n")
	newDoc := writeDoc(t, "new.tex", "A\n\nB changed\n\nC\n")

	res := execute(t.Context(), t, "diff", oldDoc, newDoc, "--format", "json", "--compact")
	require.NoError(t, res.err)

	var patch struct {
		Type        string   `json:"type"`
		Start       int      `json:"start"`
		DeleteCount int      `json:"deleteCount"`
		End         int      `json:"end"`
		HTMLs       []string `json:"htmls"`
		Shift       int      `json:"shift"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &patch))
	assert.Equal(t, "patch", patch.Type)
	assert.Equal(t, 1, patch.Start)
	assert.Equal(t, 1, patch.DeleteCount)
	assert.Equal(t, 1, patch.End)
	assert.Equal(t, []string{`<div class="tp-block" data-block="1" data-line="2"><p>B changed</p></div>`}, patch.HTMLs)
	assert.Zero(t, patch.Shift)
}

func TestIntegration_DiffText(t *testing.T) {
	t.Parallel()

	oldDoc := writeDoc(t, "old.tex", "A\n\nB\n")
	newDoc := writeDoc(t, "new.tex", "A\n\nB\n\nC\n")

	res := execute(t.Context(), t, "diff", oldDoc, newDoc)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "--- "+oldDoc)
	assert.Contains(t, res.stdout, "+++ "+newDoc)
	assert.Contains(t, res.stdout, "patch: 2 kept, 0 removed, 1 inserted, 0 kept (shift +1)")
}

func TestIntegration_Locate(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", threeBlocks)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"line in block", []string{"--line", "3"}, ":3 -> block 1 at 0.00"},
		{"line in gap", []string{"--line", "2"}, ":2 -> block 0 at 1.00"},
		{"block back to line", []string{"--block", "2", "--ratio", "0.5"}, "block 2 at 0.50 -> "},
		{"block clamped", []string{"--block", "9", "--ratio", "4"}, "block 2 at 1.00 -> "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := execute(t.Context(), t, append([]string{"locate", doc}, tt.args...)...)
			require.NoError(t, res.err)
			assert.Contains(t, res.stdout, tt.want)
		})
	}
}

func TestIntegration_LocateJSON(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", threeBlocks)
	res := execute(t.Context(), t, "locate", doc, "--line", "5", "--format", "json")
	require.NoError(t, res.err)

	var out reporter.JSONLocation
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, reporter.JSONLocation{Path: doc, Line: 4, Index: 2, Ratio: 0}, out)
}

func TestIntegration_LocateUsage(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", threeBlocks)

	res := execute(t.Context(), t, "locate", doc)
	require.Error(t, res.err)

	res = execute(t.Context(), t, "locate", doc, "--line", "1", "--block", "0")
	require.Error(t, res.err)

	res = execute(t.Context(), t, "locate", doc, "--line", "0")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
}

func TestIntegration_Rules(t *testing.T) {
	t.Parallel()

	res := execute(t.Context(), t, "rules", "--format", "json")
	require.NoError(t, res.err)

	var rules []struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Order   int      `json:"order"`
		Enabled bool     `json:"enabled"`
		Tags    []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rules))
	require.NotEmpty(t, rules)

	found := false
	for i, rule := range rules {
		if i > 0 {
			assert.GreaterOrEqual(t, rule.Order, rules[i-1].Order, "rules are listed in run order")
		}
		if rule.ID == "TX020" {
			found = true
			assert.Equal(t, "display-math", rule.Name)
			assert.Contains(t, rule.Tags, "math")
		}
	}
	assert.True(t, found, "TX020 is listed")
}

func TestIntegration_RulesText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format     string
		want       string
		notContain string
	}{
		{"combined", "TX020/display-math", ""},
		{"id", "TX020", "display-math"},
		{"name", "display-math", "TX020"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			res := execute(t.Context(), t, "rules", "--rule-format", tt.format)
			require.NoError(t, res.err)
			assert.Contains(t, res.stdout, tt.want)
			if tt.notContain != "" {
				assert.NotContains(t, res.stdout, tt.notContain)
			}
		})
	}
}

func TestIntegration_InitForceAndRestore(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), ".texpreview.yml")

	res := execute(t.Context(), t, "init", "--output", target)
	require.NoError(t, res.err)
	created, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(created), "flavor: gfm")

	res = execute(t.Context(), t, "init", "--output", target)
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))

	require.NoError(t, os.WriteFile(target, []byte("flavor: commonmark\n"), 0o644))
	res = execute(t.Context(), t, "init", "--output", target, "--force", "--full")
	require.NoError(t, res.err)

	backup, err := os.ReadFile(target + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "flavor: commonmark\n", string(backup))

	full, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(full), "TX020")

	res = execute(t.Context(), t, "init", "--output", target, "--restore")
	require.NoError(t, res.err)
	restored, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "flavor: commonmark\n", string(restored))
	assert.NoFileExists(t, target+".bak")

	res = execute(t.Context(), t, "init", "--output", target, "--restore")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(res.err))
}

func TestIntegration_InitJSON(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), ".texpreview.json")
	res := execute(t.Context(), t, "init", "--output", target, "--format", "json")
	require.NoError(t, res.err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, json.Valid(content))
}

func TestIntegration_WatchEmitsInitialFullPatch(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "paper.tex", threeBlocks)
	out := filepath.Join(t.TempDir(), "paper.html")

	ctx, cancel := context.WithTimeout(t.Context(), 300*time.Millisecond)
	defer cancel()

	res := execute(ctx, t, "watch", doc, "-o", out, "--interval", "50ms")
	require.NoError(t, res.err)

	scanner := bufio.NewScanner(strings.NewReader(res.stdout))
	require.True(t, scanner.Scan())

	var first struct {
		Type string `json:"type"`
		HTML string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &first))
	assert.Equal(t, "full", first.Type)
	assert.Contains(t, first.HTML, "<p>Intro text.</p>")
	assert.False(t, scanner.Scan(), "an unchanged file produces no further patches")

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, first.HTML+"\n", string(page))
}

func TestIntegration_VersionAndHelp(t *testing.T) {
	t.Parallel()

	res := execute(t.Context(), t, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "texpreview")
	assert.Contains(t, res.stdout, "version=test")

	res = execute(t.Context(), t, "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "Commands:")
	assert.Contains(t, res.stdout, "locate")
	assert.Contains(t, res.stdout, "--config string")
}

func TestIntegration_Build(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "drafts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.tex"), []byte(threeBlocks), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "drafts", "b.tex"), []byte("Draft.\n"), 0o644))
	out := t.TempDir()

	res := execute(t.Context(), t, "build", src, "--out-dir", out, "--exclude", "drafts", "--jobs", "2")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "build complete")

	html, err := os.ReadFile(filepath.Join(out, "a.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<p>More text.</p>")
	assert.NoFileExists(t, filepath.Join(out, "b.html"))
	assert.NoFileExists(t, filepath.Join(out, "drafts", "b.html"))
}
