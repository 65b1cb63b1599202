package rules

import (
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// theoremNames maps theorem-like environments to their printed names.
// Common abbreviations are included.
//
//nolint:gochecknoglobals // read-only lookup table
var theoremNames = map[string]string{
	"theorem":     "Theorem",
	"thm":         "Theorem",
	"lemma":       "Lemma",
	"lem":         "Lemma",
	"proposition": "Proposition",
	"prop":        "Proposition",
	"corollary":   "Corollary",
	"cor":         "Corollary",
	"definition":  "Definition",
	"defn":        "Definition",
	"remark":      "Remark",
	"rem":         "Remark",
	"example":     "Example",
	"conjecture":  "Conjecture",
	"claim":       "Claim",
	"observation": "Observation",
	"exercise":    "Exercise",
	"problem":     "Problem",
	"assumption":  "Assumption",
	"notation":    "Notation",
	"fact":        "Fact",
	"hypothesis":  "Hypothesis",
	"question":    "Question",
}

// TheoremsRule renders theorem-like environments, proofs and abstracts.
type TheoremsRule struct {
	texrules.BaseRule
}

// NewTheoremsRule creates a new theorems rule.
func NewTheoremsRule() *TheoremsRule {
	return &TheoremsRule{
		BaseRule: texrules.NewBaseRule(
			"TX110",
			"theorems",
			"Theorem-like environments, proofs and abstracts render as labelled blocks",
			110,
			[]string{"structure"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *TheoremsRule) Apply(_ *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\begin`) {
		return text, nil
	}

	for _, env := range slices.Sorted(maps.Keys(theoremNames)) {
		printed := theoremNames[env]
		for _, name := range []string{env, env + "*"} {
			text = texrules.ReplaceEnvironment(text, name, func(e texrules.Env) string {
				head := printed
				if e.HasOptional {
					head += " (" + collapseLines(e.Optional) + ")"
				}
				return labelledBlock("tp-theorem tp-theorem-"+env, "<strong class=\"tp-theorem-head\">"+head+".</strong>", e.Body, "")
			})
		}
	}

	text = texrules.ReplaceEnvironment(text, "proof", func(e texrules.Env) string {
		head := "Proof"
		if e.HasOptional {
			head = collapseLines(e.Optional)
		}
		return labelledBlock("tp-proof", "<em class=\"tp-proof-head\">"+head+".</em>", e.Body, " &#8718;")
	})

	text = texrules.ReplaceEnvironment(text, "abstract", func(e texrules.Env) string {
		return labelledBlock("tp-abstract", "<strong class=\"tp-abstract-head\">Abstract.</strong>", e.Body, "")
	})
	return text, nil
}

// labelledBlock wraps body in a div whose first paragraph starts with head.
func labelledBlock(class, head, body, tail string) string {
	return "\n\n<div class=\"" + class + "\">\n\n" + head + " " + strings.TrimSpace(body) + tail + "\n\n</div>\n\n"
}

// alignmentEnvs maps block alignment environments to their HTML openers.
//
//nolint:gochecknoglobals // read-only lookup table
var alignmentEnvs = []struct {
	name  string
	open  string
	close string
}{
	{"center", `<div class="tp-center" style="text-align: center">`, "</div>"},
	{"flushleft", `<div class="tp-flushleft" style="text-align: left">`, "</div>"},
	{"flushright", `<div class="tp-flushright" style="text-align: right">`, "</div>"},
	{"quote", `<blockquote class="tp-quote">`, "</blockquote>"},
	{"quotation", `<blockquote class="tp-quotation">`, "</blockquote>"},
	{"verse", `<blockquote class="tp-verse">`, "</blockquote>"},
	{"minipage", `<div class="tp-minipage">`, "</div>"},
}

// AlignmentRule renders alignment and quotation environments.
type AlignmentRule struct {
	texrules.BaseRule
}

// NewAlignmentRule creates a new alignment rule.
func NewAlignmentRule() *AlignmentRule {
	return &AlignmentRule{
		BaseRule: texrules.NewBaseRule(
			"TX115",
			"alignment",
			"Alignment and quotation environments render as styled blocks",
			115,
			[]string{"structure"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *AlignmentRule) Apply(_ *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\begin`) {
		return text, nil
	}

	for _, ae := range alignmentEnvs {
		text = texrules.ReplaceEnvironment(text, ae.name, func(e texrules.Env) string {
			body := e.Body
			if ae.name == "minipage" {
				if _, after, ok := texrules.ReadGroup(body, 0); ok {
					body = body[after:]
				}
			}
			return "\n\n" + ae.open + "\n\n" + strings.TrimSpace(body) + "\n\n" + ae.close + "\n\n"
		})
	}
	return text, nil
}
