package config

import "fmt"

// ParseRuleFormat validates a rule identifier format. The empty string
// selects RuleFormatName.
func ParseRuleFormat(s string) (RuleFormat, error) {
	switch f := RuleFormat(s); f {
	case "":
		return RuleFormatName, nil
	case RuleFormatName, RuleFormatID, RuleFormatCombined:
		return f, nil
	default:
		return "", fmt.Errorf("unknown rule format %q; valid formats: name, id, combined", s)
	}
}

// FormatRuleID renders a rule identifier. Rules without a name always show
// their ID.
func FormatRuleID(format RuleFormat, ruleID, ruleName string) string {
	switch {
	case ruleName == "", format == RuleFormatID:
		return ruleID
	case format == RuleFormatCombined:
		return ruleID + "/" + ruleName
	default:
		return ruleName
	}
}
