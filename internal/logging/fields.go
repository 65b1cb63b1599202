// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldFlavor = "flavor"
	FieldConfig = "config"
	FieldRules  = "rules"
	FieldMacros = "macros"

	// Render statistics fields.
	FieldBlocks     = "blocks"
	FieldBlock      = "block"
	FieldLine       = "line"
	FieldStart      = "start"
	FieldDeleted    = "deleted"
	FieldInserted   = "inserted"
	FieldEnd        = "end"
	FieldShift      = "shift"
	FieldFull       = "full"
	FieldWarnings   = "warnings"
	FieldBodyOffset = "body_offset"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldName        = "name"
	FieldOrder       = "order"
	FieldTags        = "tags"
	FieldDescription = "description"
)
