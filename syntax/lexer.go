package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	src    string
	cursor int
}

func (l *lexer) done() bool {
	return l.cursor >= len(l.src)
}

func (l *lexer) peek() byte {
	if l.done() {
		return 0
	}
	return l.src[l.cursor]
}

func (l *lexer) peekAt(delta int) byte {
	if l.cursor+delta >= len(l.src) {
		return 0
	}
	return l.src[l.cursor+delta]
}

// peekAfterTrivia returns the next meaningful byte without consuming anything.
func (l *lexer) peekAfterTrivia() byte {
	i := l.cursor
	for i < len(l.src) {
		c := l.src[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		if c == '/' && i+1 < len(l.src) && l.src[i+1] == '/' {
			for i < len(l.src) && l.src[i] != '\n' {
				i++
			}
			continue
		}
		return c
	}
	return 0
}

func (l *lexer) leaf(kind Kind, text string, start int) *Node {
	n := NewLeaf(kind, text)
	n.offset = start
	return n
}

// rawContent consumes markup up to (not including) the bracket matching an
// already-consumed `[`.
func (l *lexer) rawContent() string {
	start := l.cursor
	depth := 0
	for !l.done() {
		switch l.peek() {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return l.src[start:l.cursor]
			}
			depth--
		}
		l.cursor++
	}
	return l.src[start:]
}

// next produces the next token leaf, including trivia.
func (l *lexer) next() *Node {
	if l.done() {
		return l.leaf(End, "", l.cursor)
	}
	start := l.cursor
	ch := l.peek()

	switch {
	case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
		for !l.done() {
			c := l.peek()
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				break
			}
			l.cursor++
		}
		return l.leaf(Space, l.src[start:l.cursor], start)

	case ch == '/' && l.peekAt(1) == '/':
		for !l.done() && l.peek() != '\n' {
			l.cursor++
		}
		return l.leaf(LineComment, l.src[start:l.cursor], start)

	case ch == '"':
		l.cursor++
		for !l.done() && l.peek() != '"' {
			if l.peek() == '\\' {
				l.cursor++
			}
			l.cursor++
		}
		if !l.done() {
			l.cursor++
		}
		return l.leaf(StrLit, l.src[start:l.cursor], start)

	case ch == '<':
		// label token <name>
		end := strings.IndexByte(l.src[l.cursor:], '>')
		if end > 1 && isIdentString(l.src[l.cursor+1:l.cursor+end]) {
			l.cursor += end + 1
			return l.leaf(Label, l.src[start:l.cursor], start)
		}
		l.cursor++
		return l.leaf(Error, l.src[start:l.cursor], start)

	case ch >= '0' && ch <= '9':
		kind := IntLit
		for !l.done() && l.peek() >= '0' && l.peek() <= '9' {
			l.cursor++
		}
		if l.peek() == '.' && l.peekAt(1) >= '0' && l.peekAt(1) <= '9' {
			kind = FloatLit
			l.cursor++
			for !l.done() && l.peek() >= '0' && l.peek() <= '9' {
				l.cursor++
			}
		}
		return l.leaf(kind, l.src[start:l.cursor], start)

	case isIdentStart(rune(ch)):
		for !l.done() {
			r, size := utf8.DecodeRuneInString(l.src[l.cursor:])
			if !isIdentPart(r) {
				break
			}
			l.cursor += size
		}
		text := l.src[start:l.cursor]
		return l.leaf(keywordOrIdent(text), text, start)
	}

	l.cursor++
	simple := func(kind Kind, text string) *Node {
		return l.leaf(kind, text, start)
	}
	switch ch {
	case '(':
		return simple(LeftParen, "(")
	case ')':
		return simple(RightParen, ")")
	case '[':
		return simple(LeftBracket, "[")
	case ']':
		return simple(RightBracket, "]")
	case '{':
		return simple(LeftBrace, "{")
	case '}':
		return simple(RightBrace, "}")
	case ',':
		return simple(Comma, ",")
	case ':':
		return simple(Colon, ":")
	case ';':
		return simple(Semicolon, ";")
	case '.':
		if l.peek() == '.' {
			l.cursor++
			return simple(Dots, "..")
		}
		return simple(Dot, ".")
	case '=':
		if l.peek() == '>' {
			l.cursor++
			return simple(Arrow, "=>")
		}
		return simple(Eq, "=")
	case '+':
		return simple(Plus, "+")
	case '-':
		return simple(Minus, "-")
	case '*':
		return simple(Star, "*")
	case '/':
		return simple(Slash, "/")
	}
	return l.leaf(Error, l.src[start:l.cursor], start)
}

func keywordOrIdent(text string) Kind {
	switch text {
	case "_":
		return Underscore
	case "let":
		return Let
	case "set":
		return Set
	case "import":
		return Import
	case "include":
		return Include
	case "true", "false":
		return BoolLit
	case "none":
		return NoneLit
	case "auto":
		return AutoLit
	}
	return Ident
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func isIdentString(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if i > 0 && !isIdentPart(r) {
			return false
		}
	}
	return s != ""
}
