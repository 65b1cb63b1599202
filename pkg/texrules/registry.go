package texrules

import (
	"cmp"
	"slices"
	"sync"
)

// Registry holds all registered substitution rules.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Rule
	byName  map[string]Rule
	aliases map[string]string // alias -> canonical ID
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Rule),
		byName:  make(map[string]Rule),
		aliases: make(map[string]string),
	}
}

// Register adds a rule to the registry.
// If a rule with the same ID already exists, it is replaced.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byID[rule.ID()]; ok {
		delete(r.byName, prev.Name())
	}
	r.byID[rule.ID()] = rule
	r.byName[rule.Name()] = rule
}

// RegisterAlias maps an alias to a canonical rule ID.
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = ruleID
}

// Get retrieves a rule by ID or name.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[key]; ok {
		return rule, true
	}
	if rule, ok := r.byName[key]; ok {
		return rule, true
	}
	return nil, false
}

// Resolve returns the canonical ID and rule for a given key.
// The key can be a rule ID, name, or alias.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[key]; ok {
		return rule.ID(), rule, true
	}
	if rule, ok := r.byName[key]; ok {
		return rule.ID(), rule, true
	}
	if targetID, ok := r.aliases[key]; ok {
		if rule, ok := r.byID[targetID]; ok {
			return rule.ID(), rule, true
		}
	}
	return "", nil, false
}

// Rules returns all registered rules in pipeline order: by Order, then ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}

	slices.SortFunc(result, func(a, b Rule) int {
		if c := cmp.Compare(a.Order(), b.Order()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})

	return result
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byID))
	for id := range r.byID {
		result = append(result, id)
	}

	slices.Sort(result)
	return result
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// DefaultRegistry is the global registry for built-in rules.
// Rules register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()
