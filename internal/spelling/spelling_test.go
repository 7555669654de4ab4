package spelling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCharMap(t *testing.T) {
	chars := DefaultCharMap()

	tests := map[string]byte{
		"ALPHA":  'a',
		"X_RAY":  'x',
		"ZULU":   'z',
		"ZERO":   '0',
		"NINE":   '9',
		"COLON":  ':',
		"COMMA":  ',',
		"DOT":    '.',
		"HYPHEN": '-',
		"SPACE":  ' ',
	}
	for word, want := range tests {
		got, ok := chars.Lookup(word)
		require.True(t, ok, word)
		require.Equal(t, want, got, word)
	}

	_, ok := chars.Lookup("alpha")
	require.False(t, ok)
	require.Len(t, chars.Keywords(), 26+10+5)
}

func TestApplyCaseAndDelete(t *testing.T) {
	engine := NewEngine(DefaultCharMap())
	buf := NewBuffer(DefaultMaxLength)

	diags := engine.Apply(buf, strings.Fields("ALPHA BRAVO UPPER CHARLIE"))
	require.Empty(t, diags)
	require.Equal(t, "abC", buf.String())
	require.True(t, buf.Upper())

	diags = engine.Apply(buf, []string{"DELETE"})
	require.Empty(t, diags)
	require.Equal(t, "ab", buf.String())

	engine.Apply(buf, strings.Fields("LOWER DELTA ONE DOT"))
	require.Equal(t, "abd1.", buf.String())
}

func TestApplyUpperDoesNotAffectDigitsOrPunctuation(t *testing.T) {
	engine := NewEngine(DefaultCharMap())
	buf := NewBuffer(DefaultMaxLength)

	engine.Apply(buf, strings.Fields("UPPER ONE HYPHEN ECHO"))
	require.Equal(t, "1-E", buf.String())
}

func TestApplyUnknownWordDiagnostic(t *testing.T) {
	engine := NewEngine(DefaultCharMap())
	buf := NewBuffer(DefaultMaxLength)

	diags := engine.Apply(buf, []string{"ALPHA", "BANANA", "", "BRAVO"})
	require.Equal(t, "ab", buf.String())
	require.Len(t, diags, 1)
	require.Equal(t, "BANANA", diags[0].Word)
	require.Contains(t, diags[0].String(), "unknown spelling command")
}

func TestDeleteOnEmptyBufferIsNoop(t *testing.T) {
	engine := NewEngine(DefaultCharMap())
	buf := NewBuffer(DefaultMaxLength)

	require.Empty(t, engine.Apply(buf, []string{"DELETE", "DELETE"}))
	require.Zero(t, buf.Len())
}

func TestBufferNeverExceedsMaximum(t *testing.T) {
	engine := NewEngine(DefaultCharMap())
	buf := NewBuffer(3)

	diags := engine.Apply(buf, strings.Fields("ALPHA BRAVO CHARLIE DELTA ECHO"))
	require.Equal(t, "abc", buf.String())
	require.Len(t, diags, 2)
	require.Contains(t, diags[0].Message, "buffer full")

	engine.Apply(buf, strings.Fields("DELETE DELTA"))
	require.Equal(t, "abd", buf.String())
}

func TestDefaultBufferCapacity(t *testing.T) {
	engine := NewEngine(DefaultCharMap())
	buf := NewBuffer(0)

	words := make([]string, 300)
	for i := range words {
		words[i] = "ALPHA"
	}
	engine.Apply(buf, words)
	require.Equal(t, DefaultMaxLength, buf.Len())
}

func TestResetAndClear(t *testing.T) {
	engine := NewEngine(DefaultCharMap())
	buf := NewBuffer(DefaultMaxLength)

	engine.Apply(buf, strings.Fields("UPPER ALPHA"))
	buf.Clear()
	require.Zero(t, buf.Len())
	require.True(t, buf.Upper())

	engine.Apply(buf, []string{"BRAVO"})
	buf.Reset()
	require.Zero(t, buf.Len())
	require.False(t, buf.Upper())
}
