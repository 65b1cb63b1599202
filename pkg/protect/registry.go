// Package protect shields fragile content from a generic text-to-HTML pass.
//
// Content such as pre-rendered math, citation links or literal escapes is
// replaced by an opaque token before the pass runs and substituted back
// afterwards. Tokens are delimited by the private-use code points U+E000 and
// U+E001, which callers strip from document text, so document content can
// never spell a token and HTML escaping never touches one.
package protect

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// TokenOpen starts every protection token.
	TokenOpen = '\uE000'

	// TokenClose ends every protection token.
	TokenClose = '\uE001'

	// DefaultPrefix namespaces tokens created by a registry built without WithPrefix.
	DefaultPrefix = "p"

	// DefaultMaxPasses bounds recursive resolution of nested tokens.
	DefaultMaxPasses = 15
)

var (
	// ErrMaxPassesExceeded indicates tokens still had payloads after the pass
	// budget was spent, typically because payloads reference each other.
	ErrMaxPassesExceeded = errors.New("protection token resolution exceeded max passes")

	// ErrUnresolvedToken indicates tokens with no stored payload were left in place.
	ErrUnresolvedToken = errors.New("unresolved protection token")
)

//nolint:gochecknoglobals // Compiled once; immutable.
var tokenPattern = regexp.MustCompile(`\x{E000}([a-z]+):([0-9]+)\x{E001}`)

// Registry stores protected payloads for one render pass.
// A Registry is not safe for concurrent use.
type Registry struct {
	prefix    string
	maxPasses int
	payloads  []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithPrefix sets the token namespace. Prefixes that are not non-empty
// lower-case ASCII are ignored.
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		if validPrefix(prefix) {
			r.prefix = prefix
		}
	}
}

// WithMaxPasses sets the resolution pass budget. Values below one are ignored.
func WithMaxPasses(passes int) Option {
	return func(r *Registry) {
		if passes > 0 {
			r.maxPasses = passes
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	reg := &Registry{
		prefix:    DefaultPrefix,
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// Prefix returns the registry's token namespace.
func (r *Registry) Prefix() string {
	return r.prefix
}

// Len returns the number of stored payloads.
func (r *Registry) Len() int {
	return len(r.payloads)
}

// Reset clears all payloads and restarts the counter.
func (r *Registry) Reset() {
	r.payloads = r.payloads[:0]
}

// Protect stores content and returns the token standing in for it.
func (r *Registry) Protect(content string) string {
	idx := len(r.payloads)
	r.payloads = append(r.payloads, content)
	return r.token(idx)
}

func (r *Registry) token(idx int) string {
	var sb strings.Builder
	sb.Grow(len(r.prefix) + 10)
	sb.WriteRune(TokenOpen)
	sb.WriteString(r.prefix)
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(idx))
	sb.WriteRune(TokenClose)
	return sb.String()
}

// Resolve substitutes every known token with its payload, repeating until no
// known tokens remain or the pass budget is spent. Unknown tokens are left
// verbatim.
func (r *Registry) Resolve(text string) string {
	out, _ := r.ResolveChecked(text)
	return out
}

// ResolveChecked is Resolve with diagnostics. The returned text is always the
// best-effort resolution; the error wraps ErrMaxPassesExceeded and/or
// ErrUnresolvedToken.
func (r *Registry) ResolveChecked(text string) (string, error) {
	if !ContainsToken(text) {
		return text, nil
	}

	for range r.maxPasses {
		replaced := false
		text = tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
			payload, ok := r.lookup(match)
			if !ok {
				return match
			}
			replaced = true
			return payload
		})
		if !replaced {
			break
		}
	}

	pending, unknown := 0, 0
	for _, match := range tokenPattern.FindAllString(text, -1) {
		if _, ok := r.lookup(match); ok {
			pending++
		} else {
			unknown++
		}
	}

	var errs []error
	if pending > 0 {
		errs = append(errs, fmt.Errorf("%w: %d tokens pending after %d passes",
			ErrMaxPassesExceeded, pending, r.maxPasses))
	}
	if unknown > 0 {
		errs = append(errs, fmt.Errorf("%w: %d tokens", ErrUnresolvedToken, unknown))
	}

	return text, errors.Join(errs...)
}

// lookup returns the payload for a token belonging to this registry.
func (r *Registry) lookup(token string) (string, bool) {
	prefix, idx, ok := ParseToken(token)
	if !ok || prefix != r.prefix || idx >= len(r.payloads) {
		return "", false
	}
	return r.payloads[idx], true
}

// ParseToken splits a token into its prefix and index.
func ParseToken(token string) (string, int, bool) {
	body, ok := strings.CutPrefix(token, string(TokenOpen))
	if !ok {
		return "", 0, false
	}
	body, ok = strings.CutSuffix(body, string(TokenClose))
	if !ok {
		return "", 0, false
	}
	prefix, num, ok := strings.Cut(body, ":")
	if !ok || !validPrefix(prefix) {
		return "", 0, false
	}
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 {
		return "", 0, false
	}
	return prefix, idx, true
}

// IsToken reports whether s is exactly one well-formed token.
func IsToken(s string) bool {
	loc := tokenPattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// ContainsToken reports whether s contains at least one well-formed token.
func ContainsToken(s string) bool {
	if !strings.ContainsRune(s, TokenOpen) {
		return false
	}
	return tokenPattern.MatchString(s)
}

// StripSentinels removes the token delimiters from s so that document text can
// never form a token.
func StripSentinels(s string) string {
	if !strings.ContainsRune(s, TokenOpen) && !strings.ContainsRune(s, TokenClose) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == TokenOpen || r == TokenClose {
			return -1
		}
		return r
	}, s)
}

func validPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < 'a' || prefix[i] > 'z' {
			return false
		}
	}
	return true
}
