// Package texrules provides the substitution-rule interface, registry and
// helpers used to turn one block of markup into Markdown plus raw HTML.
//
// Rules run in ascending Order. Each rule receives the block text produced by
// the previous rule and hides anything the Markdown pass must not touch behind
// tokens from the block's protection registry.
package texrules

// Rule is one step of the substitution pipeline.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "TX020").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a short description of what the rule rewrites.
	Description() string

	// Order positions the rule in the pipeline. Lower runs first.
	Order() int

	// DefaultEnabled returns whether the rule runs unless configured otherwise.
	DefaultEnabled() bool

	// Tags returns categorization tags for this rule (e.g., ["math"]).
	Tags() []string

	// Apply rewrites text. Rules must not panic and must leave unrecognized
	// input unchanged. An error aborts the block and is reported in its place.
	Apply(ctx *Context, text string) (string, error)
}
