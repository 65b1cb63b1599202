package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texpreview/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		clone := c.Clone()
		assert.Nil(t, clone)
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies Rules map", func(t *testing.T) {
		enabled := true
		original := &config.Config{
			Rules: map[string]config.RuleConfig{
				"TX020": {Enabled: &enabled},
			},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		require.Contains(t, clone.Rules, "TX020")
		assert.True(t, *clone.Rules["TX020"].Enabled)

		*clone.Rules["TX020"].Enabled = false
		assert.True(t, *original.Rules["TX020"].Enabled)
	})

	t.Run("deep copies macros and environments", func(t *testing.T) {
		original := &config.Config{
			Macros:   map[string]string{"R": `\mathbb{R}`},
			Splitter: config.SplitterConfig{MajorEnvironments: []string{"equation"}},
		}

		clone := original.Clone()
		clone.Macros["R"] = "changed"
		clone.Splitter.MajorEnvironments[0] = "changed"

		assert.Equal(t, `\mathbb{R}`, original.Macros["R"])
		assert.Equal(t, "equation", original.Splitter.MajorEnvironments[0])
	})

	t.Run("preserves all fields", func(t *testing.T) {
		original := &config.Config{
			Flavor:     config.FlavorCommonMark,
			Splitter:   config.SplitterConfig{LookaheadWindow: 500, TrapLines: -1},
			Render:     config.RenderConfig{FullThreshold: 10, MaxResolvePasses: 3},
			Format:     config.FormatJSON,
			RuleFormat: config.RuleFormatCombined,
			Output:     "out.html",
			Standalone: true,
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("basic config serializes", func(t *testing.T) {
		cfg := &config.Config{
			Flavor: config.FlavorGFM,
			Render: config.RenderConfig{FullThreshold: 12},
			Output: "never-written.html",
		}

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "flavor: gfm")
		assert.Contains(t, string(data), "full_threshold: 12")
		assert.NotContains(t, string(data), "splitter")
		assert.NotContains(t, string(data), "never-written")
	})

	t.Run("header is prepended", func(t *testing.T) {
		data, err := config.NewConfig().ToYAMLWithHeader(config.DefaultTemplateHeader())
		require.NoError(t, err)
		assert.Contains(t, string(data), "# texpreview configuration\n")
		assert.Contains(t, string(data), "flavor: gfm")
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("parses valid YAML", func(t *testing.T) {
		yaml := []byte(`
flavor: commonmark
splitter:
  trap_lines: 80
  major_environments: [equation, figure]
render:
  full_threshold: 5
macros:
  R: \mathbb{R}
rules:
  TX150:
    enabled: false
`)
		cfg, err := config.FromYAML(yaml)
		require.NoError(t, err)
		assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
		assert.Equal(t, 80, cfg.Splitter.TrapLines)
		assert.Equal(t, []string{"equation", "figure"}, cfg.Splitter.MajorEnvironments)
		assert.Equal(t, 5, cfg.Render.FullThreshold)
		assert.Equal(t, `\mathbb{R}`, cfg.Macros["R"])
		require.Contains(t, cfg.Rules, "TX150")
		assert.False(t, *cfg.Rules["TX150"].Enabled)
	})

	t.Run("initializes empty maps", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`flavor: commonmark`))
		require.NoError(t, err)
		assert.NotNil(t, cfg.Rules)
		assert.NotNil(t, cfg.Macros)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		_, err := config.FromYAML([]byte("flavor: [unclosed"))
		require.Error(t, err)
	})
}

func TestRoundTrip(t *testing.T) {
	off := false
	original := config.NewConfig()
	original.Macros["norm"] = `\left\| #1 \right\|`
	original.Rules["TX150"] = config.RuleConfig{Enabled: &off}

	data, err := original.ToYAML()
	require.NoError(t, err)

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original.Macros, parsed.Macros)
	assert.False(t, *parsed.Rules["TX150"].Enabled)
}
