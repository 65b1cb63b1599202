package configloader

import (
	"maps"

	"github.com/yaklabco/texpreview/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.RuleFormat != "" {
		result.RuleFormat = override.RuleFormat
	}
	if override.Output != "" {
		result.Output = override.Output
	}

	// Standalone can only be switched on by a higher layer.
	if override.Standalone {
		result.Standalone = true
	}

	result.Splitter = mergeSplitter(base.Splitter, override.Splitter)
	result.Render = mergeRender(base.Render, override.Render)

	result.Macros = mergeMacros(base.Macros, override.Macros)
	result.Rules = mergeRules(base.Rules, override.Rules)

	return &result
}

func mergeSplitter(base, override config.SplitterConfig) config.SplitterConfig {
	result := base
	if override.LookaheadWindow != 0 {
		result.LookaheadWindow = override.LookaheadWindow
	}
	if override.DisplayMathWindow != 0 {
		result.DisplayMathWindow = override.DisplayMathWindow
	}
	if override.TrapLines != 0 {
		result.TrapLines = override.TrapLines
	}
	if override.MajorEnvironments != nil {
		result.MajorEnvironments = override.MajorEnvironments
	}
	if override.IgnoredEnvironments != nil {
		result.IgnoredEnvironments = override.IgnoredEnvironments
	}
	return result
}

func mergeRender(base, override config.RenderConfig) config.RenderConfig {
	result := base
	if override.FullThreshold != 0 {
		result.FullThreshold = override.FullThreshold
	}
	if override.MaxResolvePasses != 0 {
		result.MaxResolvePasses = override.MaxResolvePasses
	}
	result.Typographer = result.Typographer || override.Typographer
	result.XHTML = result.XHTML || override.XHTML
	return result
}

// mergeMacros combines macro tables; override's bodies win.
func mergeMacros(base, override map[string]string) map[string]string {
	if base == nil && override == nil {
		return nil
	}
	result := make(map[string]string, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// mergeRules performs deep merge of rule configurations.
// Both maps are iterated, with override's values taking precedence.
func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.RuleConfig, len(base)+len(override))
	maps.Copy(result, base)

	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeRuleConfig(existing, val)
		} else {
			result[key] = val
		}
	}

	return result
}

// mergeRuleConfig merges individual rule configurations.
// override's values take precedence over base's values.
func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base
	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
