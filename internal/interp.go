package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
	Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error)
	Fprintln(w io.Writer, a ...interface{}) (n int, err error)
}

// StdPrinter writes to the real standard streams
type StdPrinter struct{}

func (s StdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Println(a...)
}

func (s StdPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(w, format, a...)
}

func (s StdPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(w, a...)
}

// discardPrinter swallows everything. Used when source is parsed for
// conversion rather than run.
type discardPrinter struct{}

func (d *discardPrinter) Println(a ...interface{}) (n int, err error) {
	return 0, nil
}

func (d *discardPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return 0, nil
}

func (d *discardPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return 0, nil
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance.
// It returns false when any diagnostic was reported.
func RunSourceWithPrinter(source string, cfg *Config, p IPrinter) bool {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	keywords, err := keywordsFor(cfg.Dialect)
	if err != nil {
		p.Fprintln(os.Stderr, err.Error())
		return false
	}

	state := newInterpreterState(source, p, cfg.logger())

	state.tokens = newLexer(source, keywords).scan()
	state.lexErrors = lexErrors(state.tokens)
	if state.printLexErrors() {
		return false
	}
	if cfg.DumpTokens {
		state.dumpTokens()
	}

	state.stmts = newParser(state.tokens, state).parse()
	if cfg.DumpAST {
		state.dumpAST()
	}
	if cfg.DumpStatements {
		state.dumpStatements()
	}

	exec := newExec(state, cfg.Scoping, newImporter(cfg))
	if exec.interpret() != nil {
		state.printRuntimeError()
		return false
	}

	return state.Valid()
}

func (s *interpreterState) dumpSection(name string, lines func()) {
	s.printer.Println("----------" + name + " BEGIN----------")
	lines()
	s.printer.Println("----------" + name + " END----------")
}

func (s *interpreterState) dumpTokens() {
	s.dumpSection("TOKENS", func() {
		for i := range s.tokens {
			s.printer.Println("> " + s.tokens[i].String())
		}
	})
}

func (s *interpreterState) dumpAST() {
	s.dumpSection("AST", func() {
		for _, st := range s.stmts {
			s.printer.Println(astPrinter{}.print(st))
		}
	})
}

func (s *interpreterState) dumpStatements() {
	s.dumpSection("STATEMENTS", func() {
		for _, st := range s.stmts {
			record, err := json.Marshal(encoder{}.stmt(st))
			if err != nil {
				s.printer.Fprintln(os.Stderr, err.Error())
				continue
			}
			s.printer.Println("> " + string(record))
		}
	})
}
