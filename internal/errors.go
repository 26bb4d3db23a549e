package internal

import (
	"errors"
	"fmt"
)

// Error classes. Every diagnostic produced while running a program matches
// exactly one of them with errors.Is.
var (
	ErrLex     = errors.New("lex error")
	ErrParse   = errors.New("parse error")
	ErrRuntime = errors.New("runtime error")
)

// LexError is a deferred scanner error surfaced from a tkError token
type LexError struct {
	Line    int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Lex Error on line %d\n\t%s", e.Line, e.Message)
}

func (e *LexError) Is(target error) bool {
	return target == ErrLex
}

// ParseError is reported when a production cannot consume what it expects
type ParseError struct {
	Line    int
	Lexeme  string
	AtEnd   bool
	Message string

	err error
}

func (e *ParseError) Error() string {
	if e.AtEnd {
		return fmt.Sprintf("Parse Error on line %d at end\n\t%s", e.Line, e.Message)
	}
	return fmt.Sprintf("Parse Error on line %d at '%s'\n\t%s", e.Line, e.Lexeme, e.Message)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.err
}

// RuntimeError aborts evaluation. Kind is one of the evaluator sentinels
// (undefined variable, arity mismatch...), Cause an optional underlying error.
type RuntimeError struct {
	Line   int
	Lexeme string
	Kind   error
	Cause  error
}

func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("Runtime Error on line %d\n\t%s: %s", e.Line, e.Kind.Error(), e.Lexeme)
	if e.Cause != nil {
		msg += "\n\t" + e.Cause.Error()
	}
	return msg
}

func (e *RuntimeError) Is(target error) bool {
	return target == ErrRuntime
}

func (e *RuntimeError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}
