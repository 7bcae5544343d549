package sqlscan

import (
	"strings"
	"unicode"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination

	backslashEscapes bool
}

// NewLexer creates a new Lexer for the given input. Backslash escapes in
// string literals are honored only for MySQL-style input, recognized by
// backtick-quoted identifiers; elsewhere a backslash is an ordinary byte.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, backslashEscapes: strings.ContainsRune(input, '`')}
	l.readChar()
	return l
}

// Tokenize returns every token in input, excluding the trailing EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	start := l.pos
	if l.atEOF() {
		return Token{Type: EOF, Pos: start}
	}

	var tok Token
	switch l.ch {
	case '(':
		tok = Token{Type: LParen, Literal: "("}
	case ')':
		tok = Token{Type: RParen, Literal: ")"}
	case ',':
		tok = Token{Type: Comma, Literal: ","}
	case ';':
		tok = Token{Type: Semicolon, Literal: ";"}
	case '.':
		if isDigit(l.peekChar()) {
			return Token{Type: Number, Literal: l.readNumber(), Pos: start}
		}
		tok = Token{Type: Dot, Literal: "."}
	case '-':
		tok = Token{Type: Minus, Literal: "-"}
	case '*':
		tok = Token{Type: Star, Literal: "*"}
	case '\'':
		return Token{Type: String, Literal: l.readQuoted('\''), Pos: start}
	case '"':
		return Token{Type: Ident, Literal: l.readQuoted('"'), Quoted: true, Pos: start}
	case '`':
		return Token{Type: Ident, Literal: l.readQuoted('`'), Quoted: true, Pos: start}
	case '[':
		return Token{Type: Ident, Literal: l.readBracketed(), Quoted: true, Pos: start}
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			return Token{Type: Ident, Literal: l.readIdentifier(), Pos: start}
		case isDigit(l.ch):
			return Token{Type: Number, Literal: l.readNumber(), Pos: start}
		default:
			tok = Token{Type: Illegal, Literal: string(l.ch)}
		}
	}

	tok.Pos = start
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
			l.readChar()
		}
		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			continue
		}
		if l.ch == '#' {
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for !l.atEOF() {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}
		break
	}
}

// readQuoted reads a literal delimited by quote. A doubled quote is an
// embedded quote; with backslashEscapes a backslash escapes the next byte.
// An unterminated literal runs to the end of input.
func (l *Lexer) readQuoted(quote byte) string {
	l.readChar()
	var b strings.Builder
	for !l.atEOF() {
		switch {
		case l.backslashEscapes && l.ch == '\\' && quote != '`' && l.readPos < len(l.input):
			l.readChar()
			b.WriteByte(unescape(l.ch))
			l.readChar()
		case l.ch == quote:
			if l.peekChar() == quote {
				b.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return b.String()
		default:
			b.WriteByte(l.ch)
			l.readChar()
		}
	}
	return b.String()
}

func (l *Lexer) readBracketed() string {
	l.readChar()
	start := l.pos
	for !l.atEOF() && l.ch != ']' {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	if !l.atEOF() {
		l.readChar()
	}
	return lit
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$') {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch
	}
}

func isLetter(ch byte) bool {
	return ch >= 0x80 || unicode.IsLetter(rune(ch))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
