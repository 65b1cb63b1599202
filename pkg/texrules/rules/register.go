package rules

import "github.com/yaklabco/texpreview/pkg/texrules"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *texrules.Registry) {
	// Content that must survive untouched
	registry.Register(NewVerbatimRule()) // TX005
	registry.Register(NewCommentsRule()) // TX010
	registry.Register(NewDedentRule())   // TX015

	// Math
	registry.Register(NewDisplayMathRule()) // TX020
	registry.Register(NewInlineMathRule())  // TX030

	// Tables and escapes
	registry.Register(NewTabularRule()) // TX035
	registry.Register(NewEscapesRule()) // TX040

	// Cross references
	registry.Register(NewCitationsRule())    // TX050
	registry.Register(NewBibliographyRule()) // TX055
	registry.Register(NewReferencesRule())   // TX060
	registry.Register(NewLabelsRule())       // TX070

	// Document structure
	registry.Register(NewSectioningRule()) // TX080
	registry.Register(NewMaketitleRule())  // TX090
	registry.Register(NewFloatsRule())     // TX100
	registry.Register(NewTheoremsRule())   // TX110
	registry.Register(NewAlignmentRule())  // TX115
	registry.Register(NewListsRule())      // TX120

	// Inline formatting
	registry.Register(NewTextStylesRule()) // TX130
	registry.Register(NewLinksRule())      // TX140
	registry.Register(NewTypographyRule()) // TX150
	registry.Register(NewLayoutRule())     // TX160
}

// RegisterAliases registers alternate names accepted in configuration files.
func RegisterAliases(registry *texrules.Registry) {
	registry.RegisterAlias("math", "TX020")
	registry.RegisterAlias("cite", "TX050")
	registry.RegisterAlias("ref", "TX060")
	registry.RegisterAlias("sections", "TX080")
	registry.RegisterAlias("figures", "TX100")
	registry.RegisterAlias("code", "TX005")
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(texrules.DefaultRegistry)
	RegisterAliases(texrules.DefaultRegistry)
}
