package texrules

import (
	"errors"
	"fmt"
)

// ErrRuleFailed wraps any error returned by a rule.
var ErrRuleFailed = errors.New("substitution rule failed")

// Run applies rules to text in the given order. A rule that panics or returns
// an error stops the pipeline; the error identifies the rule.
func Run(ctx *Context, rules []Rule, text string) (string, error) {
	for _, rule := range rules {
		out, err := applyRule(ctx, rule, text)
		if err != nil {
			return text, fmt.Errorf("%w: %s (%s): %w", ErrRuleFailed, rule.ID(), rule.Name(), err)
		}
		text = out
	}
	return text, nil
}

func applyRule(ctx *Context, rule Rule, text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rule.Apply(ctx, text)
}
