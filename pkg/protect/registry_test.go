package protect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texpreview/pkg/protect"
)

func TestRegistry_RoundTrip(t *testing.T) {
	t.Parallel()

	payloads := []string{
		"",
		"plain",
		`<span class="math">\(a<b\)</span>`,
		"*not emphasis* _nor this_ `code`",
		"multi\nline\n\npayload",
		"caf\u00e9 \u2013 \U0001F600",
		"literal \\uE000 text",
	}

	for _, payload := range payloads {
		reg := protect.New()
		token := reg.Protect(payload)

		require.True(t, protect.IsToken(token), "token %q", token)
		assert.Equal(t, payload, reg.Resolve(token))
	}
}

func TestRegistry_ResolveInText(t *testing.T) {
	t.Parallel()

	reg := protect.New(protect.WithPrefix("blk"))
	math := reg.Protect("<m>x</m>")
	cite := reg.Protect("<a>[1]</a>")

	text := "See " + math + " and " + cite + "."
	out, err := reg.ResolveChecked(text)
	require.NoError(t, err)
	assert.Equal(t, "See <m>x</m> and <a>[1]</a>.", out)
}

func TestRegistry_NestedResolution(t *testing.T) {
	t.Parallel()

	reg := protect.New()
	inner := reg.Protect(`<a href="#ref-knuth">1</a>`)
	outer := reg.Protect("[" + inner + ", 2]")

	out, err := reg.ResolveChecked(outer)
	require.NoError(t, err)
	assert.Equal(t, `[<a href="#ref-knuth">1</a>, 2]`, out)
	assert.False(t, protect.ContainsToken(out))
}

func TestRegistry_DeepNesting(t *testing.T) {
	t.Parallel()

	reg := protect.New()
	token := reg.Protect("core")
	for i := 0; i < 10; i++ {
		token = reg.Protect("(" + token + ")")
	}

	out, err := reg.ResolveChecked(token)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("(", 10)+"core"+strings.Repeat(")", 10), out)
}

func TestRegistry_UnknownTokenLeftVerbatim(t *testing.T) {
	t.Parallel()

	other := protect.New(protect.WithPrefix("zz"))
	foreign := other.Protect("foreign")

	reg := protect.New()
	known := reg.Protect("known")

	out, err := reg.ResolveChecked(known + " " + foreign)
	require.Error(t, err)
	require.ErrorIs(t, err, protect.ErrUnresolvedToken)
	assert.NotErrorIs(t, err, protect.ErrMaxPassesExceeded)
	assert.Equal(t, "known "+foreign, out)
}

func TestRegistry_ResetInvalidatesTokens(t *testing.T) {
	t.Parallel()

	reg := protect.New()
	token := reg.Protect("gone")
	reg.Reset()
	assert.Equal(t, 0, reg.Len())

	out, err := reg.ResolveChecked("x" + token)
	require.ErrorIs(t, err, protect.ErrUnresolvedToken)
	assert.Equal(t, "x"+token, out)

	// Counter restarts after reset.
	assert.Equal(t, token, reg.Protect("new"))
	assert.Equal(t, "xnew", reg.Resolve("x"+token))
}

func TestRegistry_CycleIsBounded(t *testing.T) {
	t.Parallel()

	// Tokens are deterministic per prefix, so a probe registry predicts them.
	probe := protect.New()
	first := probe.Protect("")
	second := probe.Protect("")

	reg := protect.New(protect.WithMaxPasses(4))
	a := reg.Protect("a" + second)
	require.Equal(t, first, a)
	reg.Protect("b" + first)

	out, err := reg.ResolveChecked(a)
	require.ErrorIs(t, err, protect.ErrMaxPassesExceeded)
	assert.NotErrorIs(t, err, protect.ErrUnresolvedToken)
	assert.True(t, strings.HasPrefix(out, "abab"))
	assert.True(t, protect.ContainsToken(out))
}

func TestRegistry_NoTokens(t *testing.T) {
	t.Parallel()

	reg := protect.New()
	out, err := reg.ResolveChecked("plain <b>html</b>")
	require.NoError(t, err)
	assert.Equal(t, "plain <b>html</b>", out)
}

func TestWithPrefix_Invalid(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{"", "Upper", "a1", "a:b"} {
		reg := protect.New(protect.WithPrefix(prefix))
		assert.Equal(t, protect.DefaultPrefix, reg.Prefix(), "prefix %q", prefix)
	}
}

func TestParseToken(t *testing.T) {
	t.Parallel()

	reg := protect.New(protect.WithPrefix("ab"))
	reg.Protect("x")
	token := reg.Protect("y")

	prefix, idx, ok := protect.ParseToken(token)
	require.True(t, ok)
	assert.Equal(t, "ab", prefix)
	assert.Equal(t, 1, idx)

	_, _, ok = protect.ParseToken("ab:1")
	assert.False(t, ok)
}

func TestStripSentinels(t *testing.T) {
	t.Parallel()

	reg := protect.New()
	token := reg.Protect("payload")

	stripped := protect.StripSentinels("text " + token)
	assert.False(t, protect.ContainsToken(stripped))
	assert.Equal(t, "text p:0", stripped)
	assert.Equal(t, "unchanged", protect.StripSentinels("unchanged"))
}

func TestIsToken(t *testing.T) {
	t.Parallel()

	reg := protect.New()
	token := reg.Protect("x")

	assert.True(t, protect.IsToken(token))
	assert.False(t, protect.IsToken(" "+token))
	assert.False(t, protect.IsToken(token+token))
	assert.False(t, protect.IsToken("p:0"))
}
