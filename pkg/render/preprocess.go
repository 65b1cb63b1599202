package render

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/mathrender"
	"github.com/yaklabco/texpreview/pkg/protect"
	"github.com/yaklabco/texpreview/pkg/texrules"
	"github.com/yaklabco/texpreview/pkg/texsplit"
)

// normalizer maps every line ending to LF and deletes the protection token
// sentinels, so no document text can spell a token.
//
//nolint:gochecknoglobals // Immutable replacer.
var normalizer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	string(protect.TokenOpen), "",
	string(protect.TokenClose), "",
)

// NormalizeText converts CRLF and CR line endings to LF and removes the
// private-use code points reserved for protection tokens.
func NormalizeText(text string) string {
	return normalizer.Replace(text)
}

// NeutralizeComments removes the body of every comment while keeping the %
// marker, so line numbering is unchanged and the substitution rules still see
// where a comment joined two lines. Comments inside verbatim environments and
// \verb arguments are content, not comments, and are kept.
func NeutralizeComments(text string) string {
	if !strings.Contains(text, "%") {
		return text
	}

	tokens := texsplit.Lex(text)
	var sb strings.Builder
	sb.Grow(len(text))

	for _, tok := range tokens {
		if tok.Kind == texsplit.TokComment {
			sb.WriteByte('%')
			continue
		}
		sb.WriteString(tok.Text(text))
	}

	return sb.String()
}

// metadataCommands take one argument and feed the title block.
//
//nolint:gochecknoglobals // read-only lookup table
var metadataCommands = map[string]bool{
	"title":  true,
	"author": true,
	"date":   true,
}

// ExtractMetadata collects the title, author and date and every macro
// definition, and removes those commands from the text. Each removed span is
// replaced by the line breaks it contained, so line numbering is unchanged.
// Later definitions override earlier ones.
func ExtractMetadata(text string) (string, Metadata, mathrender.Macros) {
	var meta Metadata
	macros := make(mathrender.Macros)

	tokens := texsplit.Lex(text)
	definitions := make(map[string]bool)
	for _, name := range mathrender.DefinitionCommands() {
		definitions[name] = true
	}

	var sb strings.Builder
	sb.Grow(len(text))
	pos := 0

	for _, tok := range tokens {
		if tok.Kind != texsplit.TokCommand || tok.Start < pos {
			continue
		}

		end := -1
		switch {
		case metadataCommands[tok.Name]:
			value, after, ok := readMetadataArgument(text, tok.End)
			if !ok {
				continue
			}
			setMetadata(&meta, tok.Name, value)
			end = after
		case definitions[tok.Name]:
			macro, after, ok := mathrender.ParseMacroDefinition(text, tok.Start)
			if !ok {
				continue
			}
			macros[macro.Name] = macro
			end = after
		default:
			continue
		}

		sb.WriteString(text[pos:tok.Start])
		sb.WriteString(strings.Repeat("\n", strings.Count(text[tok.Start:end], "\n")))
		pos = end
	}

	if pos == 0 {
		return text, meta, macros
	}
	sb.WriteString(text[pos:])
	return sb.String(), meta, macros
}

// readMetadataArgument reads an optional short form followed by the
// mandatory argument.
func readMetadataArgument(text string, pos int) (string, int, bool) {
	if _, after, ok := texsplit.ReadOptional(text, pos); ok {
		pos = after
	}
	value, after, ok := texsplit.ReadGroup(text, pos)
	if !ok {
		return "", pos, false
	}
	return strings.TrimSpace(value), after, true
}

func setMetadata(meta *Metadata, field, value string) {
	switch field {
	case "title":
		meta.Title = value
	case "author":
		meta.Author = value
	case "date":
		meta.Date = value
	}
}

// ExtractBody returns the text between \begin{document} and \end{document}
// and the 0-based line of the body start within text. Without a document
// environment the whole text is the body and the offset is zero. A missing
// \end{document} extends the body to the end of the text.
func ExtractBody(text string) (string, int) {
	if !strings.Contains(text, `\begin{document}`) {
		return text, 0
	}

	start, end := -1, len(text)
	for _, tok := range texsplit.Lex(text) {
		switch {
		case tok.Kind == texsplit.TokBegin && tok.Name == "document" && start < 0:
			start = tok.End
		case tok.Kind == texsplit.TokEnd && tok.Name == "document" && start >= 0:
			end = tok.Start
		}
		if start >= 0 && end < len(text) {
			break
		}
	}

	if start < 0 {
		return text, 0
	}
	return text[start:end], strings.Count(text[:start], "\n")
}

// Metadata is the document-level information extracted from the preamble.
type Metadata = texrules.Metadata
