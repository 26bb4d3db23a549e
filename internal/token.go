package internal

import "fmt"

// tokenType identifies the kind of a token
type tokenType int

const (
	tkEOF tokenType = iota - 1

	// Single-character tokens.
	// (, ), {, }, ',', ., -, +, ;, /, *, %
	tkLeftParen
	tkRightParen
	tkLeftCurlyBrace
	tkRightCurlyBrace
	tkComma
	tkDot
	tkMinus
	tkPlus
	tkSemicolon
	tkSlash
	tkStar
	tkMod

	// One or two character tokens.
	// !, !=, =, ==, >, >=, <, <=
	tkBang
	tkBangEqual
	tkEqual
	tkEqualEqual
	tkGreater
	tkGreaterEqual
	tkLess
	tkLessEqual

	// Literals.
	// *variable*, string, number
	tkIdentifier
	tkString
	tkNumber

	// Keywords.
	tkAnd
	tkClass
	tkElse
	tkFalse
	tkFor
	tkFun
	tkIf
	tkNil
	tkOr
	tkPrint
	tkReturn
	tkSuper
	tkThis
	tkTrue
	tkVar
	tkWhile
	tkImport
	tkFrom

	// Carries a lexical error message in its literal.
	tkError
)

var tokenNames = map[tokenType]string{
	tkEOF:             "EOF",
	tkLeftParen:       "LEFT_PAREN",
	tkRightParen:      "RIGHT_PAREN",
	tkLeftCurlyBrace:  "LEFT_CURLY_BRACE",
	tkRightCurlyBrace: "RIGHT_CURLY_BRACE",
	tkComma:           "COMMA",
	tkDot:             "DOT",
	tkMinus:           "MINUS",
	tkPlus:            "PLUS",
	tkSemicolon:       "SEMICOLON",
	tkSlash:           "SLASH",
	tkStar:            "STAR",
	tkMod:             "MOD",
	tkBang:            "BANG",
	tkBangEqual:       "BANG_EQUAL",
	tkEqual:           "EQUAL",
	tkEqualEqual:      "EQUAL_EQUAL",
	tkGreater:         "GREATER",
	tkGreaterEqual:    "GREATER_EQUAL",
	tkLess:            "LESS",
	tkLessEqual:       "LESS_EQUAL",
	tkIdentifier:      "IDENTIFIER",
	tkString:          "STRING",
	tkNumber:          "NUMBER",
	tkAnd:             "AND",
	tkClass:           "CLASS",
	tkElse:            "ELSE",
	tkFalse:           "FALSE",
	tkFor:             "FOR",
	tkFun:             "FUN",
	tkIf:              "IF",
	tkNil:             "NIL",
	tkOr:              "OR",
	tkPrint:           "PRINT",
	tkReturn:          "RETURN",
	tkSuper:           "SUPER",
	tkThis:            "THIS",
	tkTrue:            "TRUE",
	tkVar:             "VAR",
	tkWhile:           "WHILE",
	tkImport:          "IMPORT",
	tkFrom:            "FROM",
	tkError:           "ERROR",
}

var tokenTypesByName = func() map[string]tokenType {
	out := make(map[string]tokenType, len(tokenNames))
	for tk, name := range tokenNames {
		out[name] = tk
	}
	return out
}()

func (tk tokenType) String() string {
	if name, ok := tokenNames[tk]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(tk))
}

func tokenTypeByName(name string) (tokenType, bool) {
	tk, ok := tokenTypesByName[name]
	return tk, ok
}

type token struct {
	token   tokenType
	lexeme  string
	literal interface{}
	line    int
}

func (t *token) String() string {
	if t.token == tkError {
		return fmt.Sprintf("{Kind: %s, Message: %q, Line: %d}", t.token, t.message(), t.line)
	}
	if t.literal != nil {
		return fmt.Sprintf("{Kind: %s, Lexeme: %q, Literal: %v, Line: %d}", t.token, t.lexeme, t.literal, t.line)
	}
	return fmt.Sprintf("{Kind: %s, Lexeme: %q, Line: %d}", t.token, t.lexeme, t.line)
}

// message returns the diagnostic carried by an error token
func (t *token) message() string {
	if msg, ok := t.literal.(string); ok && t.token == tkError {
		return msg
	}
	return ""
}

// Dialects map identifier spellings to keyword tokens.
var (
	linKeywords = map[string]tokenType{
		"and":     tkAnd,
		"class":   tkClass,
		"nhito":   tkElse,
		"false":   tkFalse,
		"for":     tkFor,
		"functio": tkFun,
		"agar":    tkIf,
		"nil":     tkNil,
		"or":      tkOr,
		"likh":    tkPrint,
		"dede":    tkReturn,
		"super":   tkSuper,
		"this":    tkThis,
		"true":    tkTrue,
		"var":     tkVar,
		"jabTak":  tkWhile,
		"import":  tkImport,
		"from":    tkFrom,
	}

	englishKeywords = map[string]tokenType{
		"and":    tkAnd,
		"class":  tkClass,
		"else":   tkElse,
		"false":  tkFalse,
		"for":    tkFor,
		"fun":    tkFun,
		"if":     tkIf,
		"nil":    tkNil,
		"or":     tkOr,
		"print":  tkPrint,
		"return": tkReturn,
		"super":  tkSuper,
		"this":   tkThis,
		"true":   tkTrue,
		"var":    tkVar,
		"while":  tkWhile,
		"import": tkImport,
		"from":   tkFrom,
	}
)

// Dialect names accepted by Config.
const (
	DialectLin     = "lin"
	DialectEnglish = "english"
)

func keywordsFor(dialect string) (map[string]tokenType, error) {
	switch dialect {
	case "", DialectLin:
		return linKeywords, nil
	case DialectEnglish:
		return englishKeywords, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnknownDialect, dialect)
}

// spellings inverts a keyword table so printers can render keywords back
func spellings(keywords map[string]tokenType) map[tokenType]string {
	out := make(map[tokenType]string, len(keywords))
	for word, tk := range keywords {
		out[tk] = word
	}
	return out
}
