package texrules

// BaseRule provides a default implementation of the Rule interface.
// Embed this in rule implementations and override methods as needed.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
type BaseRule struct {
	id    string   // Unique identifier (e.g., "TX020")
	name  string   // Human-readable name
	desc  string   // Short description
	order int      // Pipeline position
	tags  []string // Categorization tags
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, desc string, order int, tags []string) BaseRule {
	return BaseRule{
		id:    id,
		name:  name,
		desc:  desc,
		order: order,
		tags:  tags,
	}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a short description of the rule.
func (r *BaseRule) Description() string {
	return r.desc
}

// Order returns the pipeline position of the rule.
func (r *BaseRule) Order() int {
	return r.order
}

// DefaultEnabled returns whether the rule is enabled by default.
// Override this method to change the default.
func (r *BaseRule) DefaultEnabled() bool {
	return true
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// Apply must be overridden by concrete rule implementations.
// The default implementation returns text unchanged.
func (r *BaseRule) Apply(_ *Context, text string) (string, error) {
	return text, nil
}
