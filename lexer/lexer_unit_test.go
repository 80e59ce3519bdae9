// ----------------------------------------------------------------------------
// FILE: lexer/lexer_unit_test.go
// ----------------------------------------------------------------------------
// PURPOSE: Validates that Tokenize produces the expected flat token
//          stream for representative source, mirroring the teacher's
//          table-driven TestNextToken. Assertions use testify/require,
//          the pack's one grounded third-party test-assertion library
//          (other_examples' wazero wat-lexer and protocompile
//          parser-lexer test files both assert this way).
// ----------------------------------------------------------------------------
package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenLiterals(t *testing.T, input string) []string {
	t.Helper()
	toks, err := Tokenize(input)
	require.NoError(t, err)
	lits := make([]string, len(toks))
	for i, tok := range toks {
		lits[i] = tok.Literal
	}
	return lits
}

func TestTokenize_Basics(t *testing.T) {
	got := tokenLiterals(t, `int x = 3 + 4 * 2;`)
	require.Equal(t, []string{"int", "x", "=", "3", "+", "4", "*", "2", ";"}, got)
}

func TestTokenize_MultiCharPunct(t *testing.T) {
	got := tokenLiterals(t, `a <= b; c += 1; d <: e; {} [] <>`)
	require.Equal(t, []string{
		"a", "<=", "b", ";", "c", "+=", "1", ";", "d", "<:", "e", ";", "{}", "[]", "<>",
	}, got)
}

func TestTokenize_StringLiteralKeepsQuotesAndEscapes(t *testing.T) {
	got := tokenLiterals(t, `"he said \"hi\""`)
	require.Equal(t, []string{`"he said \"hi\""`}, got)
}

func TestTokenize_LineTracking(t *testing.T) {
	toks, err := Tokenize("int x = 1;\nint y = 2;")
	require.NoError(t, err)
	for _, tok := range toks[:5] {
		require.Equalf(t, 1, tok.Line, "token %q", tok.Literal)
	}
	for _, tok := range toks[5:] {
		require.Equalf(t, 2, tok.Line, "token %q", tok.Literal)
	}
}

func TestTokenize_CommentsSkipped(t *testing.T) {
	got := tokenLiterals(t, "int x = 1; // trailing comment\n/* block\ncomment */ int y = 2;")
	require.Equal(t, []string{"int", "x", "=", "1", ";", "int", "y", "=", "2", ";"}, got)
}

func TestTokenize_UnterminatedStringIsError(t *testing.T) {
	_, err := Tokenize(`"unterminated`)
	require.Error(t, err)
}

func TestTokenize_UnterminatedCommentIsError(t *testing.T) {
	_, err := Tokenize("/* never closes")
	require.Error(t, err)
}

func TestTokenize_RealLiteral(t *testing.T) {
	got := tokenLiterals(t, "3.14")
	require.Equal(t, []string{"3.14"}, got)
}
