package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/langdetect"
	"github.com/yaklabco/texpreview/pkg/texrules"
)

// verbatimEnvNames lists environments whose bodies are shown as code or dropped.
//
//nolint:gochecknoglobals // read-only lookup table
var verbatimEnvNames = []string{
	"verbatim", "verbatim*", "Verbatim", "BVerbatim",
	"lstlisting", "minted",
	"comment", "filecontents", "filecontents*",
}

//nolint:gochecknoglobals // read-only lookup table
var inlineCodeCommands = nameSet("verb", "lstinline", "mintinline")

// VerbatimRule renders verbatim-like environments and inline verbatim as code.
type VerbatimRule struct {
	texrules.BaseRule
}

// NewVerbatimRule creates a new verbatim rule.
func NewVerbatimRule() *VerbatimRule {
	return &VerbatimRule{
		BaseRule: texrules.NewBaseRule(
			"TX005",
			"verbatim",
			"Verbatim environments and inline verbatim render as code",
			5,
			[]string{"code", "protect"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *VerbatimRule) Apply(ctx *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\`) {
		return text, nil
	}

	for _, name := range verbatimEnvNames {
		text = texrules.ReplaceEnvironment(text, name, func(env texrules.Env) string {
			return renderCodeEnv(ctx, env)
		})
	}

	return replaceInlineCode(ctx, text), nil
}

func renderCodeEnv(ctx *texrules.Context, env texrules.Env) string {
	body := env.Body
	lang := ""

	switch env.Name {
	case "comment", "filecontents", "filecontents*":
		return ""
	case "lstlisting":
		if env.HasOptional {
			lang = langdetect.FromListingOptions(env.Optional)
		}
	case "minted":
		if name, after, ok := texrules.ReadGroup(body, 0); ok {
			lang = langdetect.Normalize(name)
			body = body[after:]
		}
	case "Verbatim", "BVerbatim":
		// fancyvrb options carry no language.
	default:
		if env.HasOptional {
			body = "[" + env.Optional + "]" + body
		}
	}

	body = trimCodeBody(body)
	if lang == "" {
		lang = langdetect.Detect([]byte(body))
	}

	html := `<pre class="tp-code"><code class="language-` + texrules.EscapeHTML(lang) + `">` +
		texrules.EscapeHTML(body) + `</code></pre>`
	return texrules.HTMLBlock(ctx.ProtectHTML(html))
}

// trimCodeBody drops the rest of the header line and the indentation before
// the closing \end.
func trimCodeBody(body string) string {
	if idx := strings.IndexByte(body, '\n'); idx >= 0 && strings.TrimSpace(body[:idx]) == "" {
		body = body[idx+1:]
	}
	body = strings.TrimRight(body, " \t")
	return strings.TrimSuffix(body, "\n")
}

// replaceInlineCode rewrites \verb, \lstinline and \mintinline.
func replaceInlineCode(ctx *texrules.Context, text string) string {
	return scanCommands(text, inlineCodeCommands, func(name string, _, end int) (string, int, bool) {
		var code, lang string
		stop := end
		found := false

		switch name {
		case "verb":
			code, stop, found = readVerbArg(text, end, true)
		case "lstinline":
			after := end
			if opts, next, hasOpts := texrules.ReadOptional(text, end); hasOpts {
				lang = langdetect.FromListingOptions(opts)
				after = next
			}
			code, stop, found = readVerbArg(text, after, false)
		case "mintinline":
			if langName, next, hasLang := texrules.ReadGroup(text, end); hasLang {
				lang = langdetect.Normalize(langName)
				code, stop, found = readVerbArg(text, next, false)
			}
		}
		if !found {
			return "", end, false
		}

		class := "tp-verb"
		if lang != "" {
			class += " language-" + texrules.EscapeHTML(lang)
		}
		return ctx.ProtectHTML(`<code class="` + class + `">` + texrules.EscapeHTML(code) + `</code>`), stop, true
	})
}

// readVerbArg reads a delimited verbatim argument at pos. Brace groups are
// accepted as delimiters except for \verb. The argument must end on the same
// line.
func readVerbArg(text string, pos int, isVerb bool) (string, int, bool) {
	if isVerb && pos < len(text) && text[pos] == '*' {
		pos++
	}
	if pos >= len(text) {
		return "", pos, false
	}

	delim := text[pos]
	if delim == '{' && !isVerb {
		return texrules.ReadGroup(text, pos)
	}
	if delim == ' ' || delim == '\n' || delim == '\t' || delim == '{' ||
		(delim >= 'a' && delim <= 'z') || (delim >= 'A' && delim <= 'Z') {
		return "", pos, false
	}

	end := strings.IndexByte(text[pos+1:], delim)
	if end < 0 {
		return "", pos, false
	}
	code := text[pos+1 : pos+1+end]
	if strings.Contains(code, "\n") {
		return "", pos, false
	}
	return code, pos + 2 + end, true
}
