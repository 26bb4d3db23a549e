package internal

import (
	"strconv"
	"unicode/utf8"
)

type lexer struct {
	source  string
	start   int
	current int
	line    int

	keywords map[string]tokenType

	tokens []token
}

func newLexer(source string, keywords map[string]tokenType) *lexer {
	if keywords == nil {
		keywords = linKeywords
	}
	return &lexer{
		source:   source,
		line:     1,
		keywords: keywords,
	}
}

// scan never fails: malformed input shows up as tkError tokens and the
// result always ends with a single tkEOF.
func (l *lexer) scan() []token {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}
	l.start = l.current
	l.tokens = append(l.tokens, token{
		token: tkEOF,
		line:  l.line,
	})
	return l.tokens
}

func (l *lexer) scanToken() {
	c := l.advance()
	switch c {
	case '(':
		l.emit(tkLeftParen, nil)
	case ')':
		l.emit(tkRightParen, nil)
	case '{':
		l.emit(tkLeftCurlyBrace, nil)
	case '}':
		l.emit(tkRightCurlyBrace, nil)
	case ',':
		l.emit(tkComma, nil)
	case '.':
		l.emit(tkDot, nil)
	case '-':
		l.emit(tkMinus, nil)
	case '+':
		l.emit(tkPlus, nil)
	case ';':
		l.emit(tkSemicolon, nil)
	case '*':
		l.emit(tkStar, nil)
	case '%':
		l.emit(tkMod, nil)
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.emit(tkSlash, nil)
		}
	case '!':
		if l.match('=') {
			l.emit(tkBangEqual, nil)
		} else {
			l.emit(tkBang, nil)
		}
	case '=':
		if l.match('=') {
			l.emit(tkEqualEqual, nil)
		} else {
			l.emit(tkEqual, nil)
		}
	case '<':
		if l.match('=') {
			l.emit(tkLessEqual, nil)
		} else {
			l.emit(tkLess, nil)
		}
	case '>':
		if l.match('=') {
			l.emit(tkGreaterEqual, nil)
		} else {
			l.emit(tkGreater, nil)
		}

	// Ignore whitespace
	case ' ':
	case '\r':
	case '\t':

	case '\n':
		l.line++

	case '"':
		l.string()

	default:
		if isDigit(c) {
			l.number()
		} else if isAlpha(c) {
			l.identifier()
		} else {
			r, size := utf8.DecodeRuneInString(l.source[l.start:])
			l.current = l.start + size
			l.emitError("Unexpected character: " + string(r))
		}
	}
}

func (l *lexer) string() {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}

	if l.isAtEnd() {
		l.emitError("Unterminated string.")
		return
	}

	// Consume ending "
	l.advance()

	l.emit(tkString, l.source[l.start+1:l.current-1])
}

func (l *lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	literal, _ := strconv.ParseFloat(l.source[l.start:l.current], 64)

	l.emit(tkNumber, literal)
}

func (l *lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	identifier := l.source[l.start:l.current]

	tokenType, ok := l.keywords[identifier]
	if !ok {
		tokenType = tkIdentifier
	}

	l.emit(tokenType, nil)
}

func (l *lexer) advance() byte {
	current := l.source[l.current]
	l.current++
	return current
}

func (l *lexer) match(c byte) bool {
	if l.isAtEnd() || l.source[l.current] != c {
		return false
	}
	l.current++
	return true
}

func (l *lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *lexer) emit(tk tokenType, literal interface{}) {
	l.tokens = append(l.tokens, token{
		token:   tk,
		lexeme:  l.source[l.start:l.current],
		literal: literal,
		line:    l.line,
	})
}

func (l *lexer) emitError(message string) {
	l.tokens = append(l.tokens, token{
		token:   tkError,
		lexeme:  l.source[l.start:l.current],
		literal: message,
		line:    l.line,
	})
}

func (l *lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

// lexErrors collects the deferred errors of a token stream
func lexErrors(tokens []token) []*LexError {
	var errs []*LexError
	for i := range tokens {
		if tokens[i].token == tkError {
			errs = append(errs, &LexError{
				Line:    tokens[i].line,
				Message: tokens[i].message(),
			})
		}
	}
	return errs
}
