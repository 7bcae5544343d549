// Package sqlscan tokenizes SQL text for structural scanning of dumps and
// generated queries. It is not a grammar: callers walk the token stream
// looking for the shapes they care about.
package sqlscan

import "strings"

// TokenType is the lexical class of a token.
type TokenType int

const (
	EOF     TokenType = iota
	Illegal           // any byte not otherwise classified
	Ident             // bare or quoted identifier / keyword
	String            // 'single quoted' literal, unescaped
	Number            // 123, 4.5, 1e10
	LParen
	RParen
	Comma
	Semicolon
	Dot
	Minus
	Star
)

// Token is one lexical unit. Quoted is set for "x", `x` and [x] identifiers.
type Token struct {
	Type    TokenType
	Literal string
	Quoted  bool
	Pos     int
}

// Is reports whether t is an unquoted identifier matching keyword,
// case-insensitively.
func (t Token) Is(keyword string) bool {
	return t.Type == Ident && !t.Quoted && strings.EqualFold(t.Literal, keyword)
}

// IsName reports whether t can name a table or column.
func (t Token) IsName() bool {
	return t.Type == Ident
}
