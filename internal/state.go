package internal

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// interpreterState stores the state of one program run
type interpreterState struct {
	source string
	tokens []token
	stmts  []stmt

	lexErrors    []*LexError
	parseErrors  []*ParseError
	runtimeError *RuntimeError

	printer IPrinter
	logger  *logrus.Logger
}

func newInterpreterState(source string, p IPrinter, logger *logrus.Logger) *interpreterState {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &interpreterState{
		source:  source,
		printer: p,
		logger:  logger,
	}
}

// parseAbort unwinds the parser up to the enclosing declaration
type parseAbort struct{}

// setError reports a parse error without aborting the current production
func (s *interpreterState) setError(err error, tk *token) {
	pErr := &ParseError{
		Line:    tk.line,
		Lexeme:  tk.lexeme,
		AtEnd:   tk.token == tkEOF,
		Message: err.Error(),
		err:     err,
	}
	s.parseErrors = append(s.parseErrors, pErr)
	s.printer.Fprintln(os.Stderr, pErr.Error())
}

// fatalError reports a parse error and aborts the current declaration
func (s *interpreterState) fatalError(err error, tk *token) {
	s.setError(err, tk)
	panic(parseAbort{})
}

// runtimeErr aborts the whole evaluation
func (s *interpreterState) runtimeErr(err error, tk *token) {
	s.runtimeFailure(&RuntimeError{
		Line:   tk.line,
		Lexeme: tk.lexeme,
		Kind:   err,
	})
}

func (s *interpreterState) runtimeFailure(rErr *RuntimeError) {
	s.runtimeError = rErr
	panic(rErr)
}

// Valid returns true when neither the scanner nor the parser reported errors
func (s *interpreterState) Valid() bool {
	return len(s.lexErrors) == 0 && len(s.parseErrors) == 0
}

// printLexErrors prints deferred scanner errors, returns true if there were any
func (s *interpreterState) printLexErrors() bool {
	for _, e := range s.lexErrors {
		s.printer.Fprintln(os.Stderr, e.Error())
	}
	return len(s.lexErrors) > 0
}

func (s *interpreterState) printRuntimeError() {
	if s.runtimeError != nil {
		s.printer.Fprintln(os.Stderr, s.runtimeError.Error())
	}
}

// Configuration errors
var errUnknownDialect = errors.New("Unknown keyword dialect")
var errUnknownScoping = errors.New("Unknown scoping mode")

// Parser errors
var errExpectedExpr = errors.New("Expect expression.")
var errExpectedVarName = errors.New("Expect variable name.")
var errExpectedSemicolonVar = errors.New("Expect ';' after variable declaration.")
var errExpectedSemicolonValue = errors.New("Expect ';' after value.")
var errExpectedSemicolonReturn = errors.New("Expect ';' after return value.")
var errExpectedSemicolonExpr = errors.New("Expect ';' after expression.")
var errExpectedSemicolonLoop = errors.New("Expect ';' after loop condition.")
var errExpectedSemicolonImport = errors.New("Expect ';' after import statement.")
var errExpectedClassName = errors.New("Expect class name.")
var errExpectedSuperclassName = errors.New("Expect superclass name.")
var errExpectedClassBody = errors.New("Expect '{' before class body.")
var errUnclosedClassBody = errors.New("Expect '}' after class body.")
var errExpectedParamName = errors.New("Expect parameter name.")
var errUnclosedParams = errors.New("Expect ')' after parameters.")
var errExpectedFunctionBody = errors.New("Expect '{' before function body.")
var errUnclosedBlock = errors.New("Expect '}' after block.")
var errUnclosedParen = errors.New("Expect ')' after expression.")
var errUnclosedArguments = errors.New("Expect ')' after arguments.")
var errExpectedImportName = errors.New("Expect function name.")
var errExpectedFrom = errors.New("Expect 'from'.")
var errExpectedPackageName = errors.New("Expect package name.")
var errInvalidAssignment = errors.New("Invalid assignment target.")
var errMaxParameters = errors.New("Can't have more than 255 parameters.")
var errMaxArguments = errors.New("Can't have more than 255 arguments.")

func errExpectedName(kind string) error {
	return fmt.Errorf("Expect %s name.", kind)
}

func errExpectedOpenParen(after string) error {
	return fmt.Errorf("Expect '(' after %s.", after)
}

func errExpectedCloseParen(after string) error {
	return fmt.Errorf("Expect ')' after %s.", after)
}

// Runtime errors
var errUndefinedVar = errors.New("Undefined variable")
var errOnlyNumbers = errors.New("Operands must be numbers")
var errOnlyNumber = errors.New("Operand must be a number")
var errDivisionByZero = errors.New("Division by zero")
var errOnlyFunction = errors.New("Can only call functions")
var errInvalidNumberArguments = errors.New("Invalid number of arguments")
var errUndefinedOp = errors.New("Undefined operator")
var errStackOverflow = errors.New("Stack overflow")
var errImportNotFound = errors.New("Import not found")

func errArity(expected, got int) error {
	return fmt.Errorf("Expected %d arguments but got %d.", expected, got)
}
