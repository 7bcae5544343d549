package sqlscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tok struct {
	typ TokenType
	lit string
}

func simplify(toks []Token) []tok {
	out := make([]tok, len(toks))
	for i, t := range toks {
		out[i] = tok{t.Type, t.Literal}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "select",
			input: "SELECT * FROM users LIMIT 5;",
			want: []tok{
				{Ident, "SELECT"}, {Star, "*"}, {Ident, "FROM"}, {Ident, "users"},
				{Ident, "LIMIT"}, {Number, "5"}, {Semicolon, ";"},
			},
		},
		{
			name:  "quoted identifiers",
			input: "\"a b\".`c`.[d e]",
			want:  []tok{{Ident, "a b"}, {Dot, "."}, {Ident, "c"}, {Dot, "."}, {Ident, "d e"}},
		},
		{
			name:  "backslash escapes with backtick identifiers",
			input: "`t` 'it''s' 'a\\'b' 'line\\nbreak'",
			want:  []tok{{Ident, "t"}, {String, "it's"}, {String, "a'b"}, {String, "line\nbreak"}},
		},
		{
			name:  "backslash is literal in standard strings",
			input: `"t" 'C:\new' 'it''s'`,
			want:  []tok{{Ident, "t"}, {String, `C:\new`}, {String, "it's"}},
		},
		{
			name:  "numbers",
			input: "1 2.5 .5 1e10 3E-2",
			want: []tok{
				{Number, "1"}, {Number, "2.5"}, {Number, ".5"}, {Number, "1e10"}, {Number, "3E-2"},
			},
		},
		{
			name:  "comments",
			input: "a -- line\n# hash\nb /* block\n */ c",
			want:  []tok{{Ident, "a"}, {Ident, "b"}, {Ident, "c"}},
		},
		{
			name:  "punctuation",
			input: "f(x, -1)",
			want: []tok{
				{Ident, "f"}, {LParen, "("}, {Ident, "x"}, {Comma, ","},
				{Minus, "-"}, {Number, "1"}, {RParen, ")"},
			},
		},
		{
			name:  "illegal",
			input: "a = b",
			want:  []tok{{Ident, "a"}, {Illegal, "="}, {Ident, "b"}},
		},
		{
			name:  "unterminated string",
			input: "'abc",
			want:  []tok{{String, "abc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, simplify(Tokenize(tt.input)))
		})
	}
}

func TestTokenQuotedFlag(t *testing.T) {
	toks := Tokenize(`from "from"`)
	require.Len(t, toks, 2)
	assert.True(t, toks[0].Is("FROM"))
	assert.False(t, toks[1].Is("FROM"))
	assert.True(t, toks[1].Quoted)
	assert.True(t, toks[1].IsName())
}

func TestTokenPositions(t *testing.T) {
	toks := Tokenize("ab  (cd)")
	require.Len(t, toks, 4)
	assert.Equal(t, []int{0, 4, 5, 7}, []int{toks[0].Pos, toks[1].Pos, toks[2].Pos, toks[3].Pos})
}

func TestMatchParen(t *testing.T) {
	toks := Tokenize("(a, (b, c), d) e")
	assert.Equal(t, 10, MatchParen(toks, 0))
	assert.Equal(t, 7, MatchParen(toks, 3))

	open := Tokenize("(a, (b")
	assert.Equal(t, len(open), MatchParen(open, 0))
}

func TestSplitTopLevel(t *testing.T) {
	parts := SplitTopLevel(Tokenize("1, f(2, 3), , 'x'"))
	require.Len(t, parts, 4)
	assert.Equal(t, "1", Join(parts[0]))
	assert.Equal(t, "f(2, 3)", Join(parts[1]))
	assert.Empty(t, parts[2])
	assert.Equal(t, "'x'", Join(parts[3]))

	assert.Nil(t, SplitTopLevel(nil))
}

func TestQualifiedName(t *testing.T) {
	toks := Tokenize(`db."schema".tbl (x)`)
	name, next, ok := QualifiedName(toks, 0)
	require.True(t, ok)
	assert.Equal(t, "tbl", name)
	assert.Equal(t, LParen, toks[next].Type)

	_, _, ok = QualifiedName(toks, next)
	assert.False(t, ok)
}
