// Package render turns successive versions of a document into patches for a
// live HTML view.
//
// Each Render call normalizes the text, neutralizes comments, extracts the
// metadata and macro definitions, isolates the document body and splits it
// into blocks. Blocks whose source matches the previous render keep their
// cached HTML; the changed middle region runs through the substitution rules,
// the generic markup pass and token resolution. The result is either a full
// payload or a splice of the changed region.
//
// Source lines and block positions translate through LineMap for cursor and
// scroll synchronization.
package render
