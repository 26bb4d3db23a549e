package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahrtr/gocontainer/set"
	"github.com/labstack/gommon/bytes"
	"github.com/sirupsen/logrus"

	"lin/internal/lockfile"
	"lin/internal/registry"
)

var errConversion = errors.New("cannot convert function")

// Install makes sure package name is present in the lock, fetching it from
// the registry when needed. With temp set the temporary lock is used.
func Install(cfg *Config, name string, temp bool) (*lockfile.Package, error) {
	log := cfg.logger()
	path := cfg.LockPath
	if temp {
		path = cfg.TempLockPath
	}

	lock, err := lockfile.Load(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"lock": path,
		"size": bytes.Format(lock.Size),
	}).Debug("lock loaded")

	if pkg := lock.Package(name); pkg != nil {
		log.Infof("Package '%s' is already installed.", name)
		return pkg, nil
	}

	published, err := cfg.fetcher().Fetch(name)
	if err != nil {
		return nil, err
	}

	pkg, err := canonicalPackage(published, linKeywords)
	if err != nil {
		return nil, err
	}

	lock.Add(pkg)
	if err := lockfile.Write(path, lock); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"lock": path,
		"size": bytes.Format(lock.Size),
	}).Debug("lock written")
	log.Infof("Package '%s' version '%s' installed successfully.", pkg.Name, pkg.Version)
	return pkg, nil
}

// canonicalPackage converts a published package into its sealed lock form.
// Published bodies are always lin dialect source.
func canonicalPackage(published *registry.Package, keywords map[string]tokenType) (*lockfile.Package, error) {
	pkg := &lockfile.Package{
		Name:      published.Name,
		Version:   published.Version,
		Functions: make([]*lockfile.Function, 0, len(published.Functions)),
	}
	for _, fn := range published.Functions {
		decl, err := parsePublishedFunction(fn, keywords)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", published.Name, err)
		}
		pkg.Functions = append(pkg.Functions, encodeFunction(decl))
	}
	if err := pkg.Seal(); err != nil {
		return nil, err
	}
	return pkg, nil
}

// parsePublishedFunction builds a declaration from a name, parameter names
// and body lines of source.
func parsePublishedFunction(fn registry.Function, keywords map[string]tokenType) (*fnStmt, error) {
	name, err := identifierToken(fn.Name, keywords)
	if err != nil {
		return nil, err
	}
	decl := &fnStmt{name: name, params: make([]*token, 0, len(fn.Params))}
	for _, p := range fn.Params {
		param, err := identifierToken(p, keywords)
		if err != nil {
			return nil, err
		}
		decl.params = append(decl.params, param)
	}

	state := newInterpreterState(strings.Join(fn.Body, "\n"), &discardPrinter{}, nil)
	state.tokens = newLexer(state.source, keywords).scan()
	if lexErrs := lexErrors(state.tokens); len(lexErrs) > 0 {
		return nil, fmt.Errorf("%w %s: %w", errConversion, fn.Name, lexErrs[0])
	}
	decl.body = newParser(state.tokens, state).parse()
	if len(state.parseErrors) > 0 {
		return nil, fmt.Errorf("%w %s: %w", errConversion, fn.Name, state.parseErrors[0])
	}
	return decl, nil
}

// identifierToken checks that text lexes as exactly one identifier
func identifierToken(text string, keywords map[string]tokenType) (*token, error) {
	tokens := newLexer(text, keywords).scan()
	if len(tokens) != 2 || tokens[0].token != tkIdentifier {
		return nil, fmt.Errorf("%w: %q is not an identifier", errConversion, text)
	}
	return &tokens[0], nil
}

// BuildPackage turns every top-level function declared in source into its
// published form. source is read in cfg.Dialect, bodies are rendered in the
// lin dialect.
func BuildPackage(cfg *Config, name, version, source string) (*registry.Package, error) {
	keywords, err := keywordsFor(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	state := newInterpreterState(source, &discardPrinter{}, cfg.logger())
	state.tokens = newLexer(source, keywords).scan()
	if lexErrs := lexErrors(state.tokens); len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}
	stmts := newParser(state.tokens, state).parse()
	if len(state.parseErrors) > 0 {
		return nil, state.parseErrors[0]
	}

	printer := newSourcePrinter(linKeywords)
	pkg := &registry.Package{Name: name, Version: version, Functions: []registry.Function{}}
	seen := set.New()
	for _, st := range stmts {
		decl, isFn := st.(*fnStmt)
		if !isFn {
			continue
		}
		if seen.Contains(decl.name.lexeme) {
			return nil, fmt.Errorf("%w: function %s declared twice", registry.ErrInvalid, decl.name.lexeme)
		}
		seen.Add(decl.name.lexeme)

		fn := registry.Function{
			Name:   decl.name.lexeme,
			Params: make([]string, 0, len(decl.params)),
			Body:   make([]string, 0, len(decl.body)),
		}
		for _, param := range decl.params {
			fn.Params = append(fn.Params, param.lexeme)
		}
		for _, s := range decl.body {
			fn.Body = append(fn.Body, printer.stmt(s))
		}
		// Identifiers of other dialects may be lin keywords
		if _, err := parsePublishedFunction(fn, linKeywords); err != nil {
			return nil, fmt.Errorf("%w: %w", registry.ErrInvalid, err)
		}
		pkg.Functions = append(pkg.Functions, fn)
	}
	return pkg, nil
}

