package texrules

import "slices"

// ResolveRules returns the rules to run, in pipeline order. overrides maps a
// rule ID, name or alias to an explicit enabled state; rules without an
// override use DefaultEnabled. Keys that match no rule are returned as unknown.
func ResolveRules(registry *Registry, overrides map[string]bool) ([]Rule, []string) {
	explicit := make(map[string]bool, len(overrides))
	var unknown []string

	for key, enabled := range overrides {
		id, _, ok := registry.Resolve(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		explicit[id] = enabled
	}

	slices.Sort(unknown)

	var resolved []Rule
	for _, rule := range registry.Rules() {
		enabled := rule.DefaultEnabled()
		if v, ok := explicit[rule.ID()]; ok {
			enabled = v
		}
		if enabled {
			resolved = append(resolved, rule)
		}
	}

	return resolved, unknown
}
