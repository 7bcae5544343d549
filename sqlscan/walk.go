package sqlscan

import "strings"

// MatchParen returns the index of the RParen closing the LParen at open, or
// len(toks) if the group is never closed.
func MatchParen(toks []Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Type {
		case LParen:
			depth++
		case RParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks)
}

// SplitTopLevel splits toks on commas that are not nested in parentheses.
// Empty segments are kept so positional callers stay aligned.
func SplitTopLevel(toks []Token) [][]Token {
	var parts [][]Token
	depth, start := 0, 0
	for i, t := range toks {
		switch t.Type {
		case LParen:
			depth++
		case RParen:
			if depth > 0 {
				depth--
			}
		case Comma:
			if depth == 0 {
				parts = append(parts, toks[start:i])
				start = i + 1
			}
		}
	}
	if start < len(toks) || len(parts) > 0 {
		parts = append(parts, toks[start:])
	}
	return parts
}

// QualifiedName reads a possibly dotted name starting at i. It returns the
// last segment and the index just past the name. ok is false when toks[i]
// is not a name.
func QualifiedName(toks []Token, i int) (name string, next int, ok bool) {
	if i >= len(toks) || !toks[i].IsName() {
		return "", i, false
	}
	name = toks[i].Literal
	next = i + 1
	for next+1 < len(toks) && toks[next].Type == Dot && toks[next+1].IsName() {
		name = toks[next+1].Literal
		next += 2
	}
	return name, next, true
}

// Join renders toks back to text separated by single spaces, keeping
// punctuation tight. Used for values that are expressions, not literals.
func Join(toks []Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && needsSpace(toks[i-1], t) {
			b.WriteByte(' ')
		}
		switch {
		case t.Type == String:
			b.WriteString("'" + strings.ReplaceAll(t.Literal, "'", "''") + "'")
		case t.Type == Ident && t.Quoted:
			b.WriteString(`"` + t.Literal + `"`)
		default:
			b.WriteString(t.Literal)
		}
	}
	return b.String()
}

func needsSpace(prev, cur Token) bool {
	switch {
	case cur.Type == LParen && prev.Type == Ident:
		return false
	case cur.Type == RParen || cur.Type == Comma || cur.Type == Dot:
		return false
	case prev.Type == LParen || prev.Type == Dot || prev.Type == Minus:
		return false
	}
	return true
}
