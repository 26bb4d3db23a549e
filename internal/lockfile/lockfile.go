// Package lockfile reads and writes the package lock: the list of installed
// packages together with their functions in canonical form.
package lockfile

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

const checksumPrefix = "blake3:"

// ErrChecksum is returned when a package does not match its recorded digest
var ErrChecksum = errors.New("checksum mismatch")

// ErrMalformed is returned for lock files holding null entries
var ErrMalformed = errors.New("malformed lock")

// Lock is the whole lock file
type Lock struct {
	Packages []*Package `json:"packages"`

	// Size is the encoded size of the file last read or written
	Size int64 `json:"-"`
}

// Package is one installed package
type Package struct {
	Name      string      `json:"name"`
	Version   string      `json:"version"`
	Checksum  string      `json:"checksum,omitempty"`
	Functions []*Function `json:"functions"`
}

// Function is a function declaration in canonical form
type Function struct {
	Name   Token   `json:"name"`
	Params []Token `json:"params"`
	Body   []*Node `json:"body"`
}

// Token is a source token without its literal. Literals live in Node.Literal.
type Token struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
}

// Literal wraps a literal value so that false and nil survive encoding
type Literal struct {
	Value interface{} `json:"value"`
}

// Node is one statement or expression. Kind names the node and decides
// which of the other fields are set.
type Node struct {
	Kind string `json:"kind"`

	Name     *Token `json:"name,omitempty"`
	Operator *Token `json:"operator,omitempty"`
	Paren    *Token `json:"paren,omitempty"`
	Keyword  *Token `json:"keyword,omitempty"`

	Literal *Literal `json:"literal,omitempty"`

	Left        *Node   `json:"left,omitempty"`
	Right       *Node   `json:"right,omitempty"`
	Value       *Node   `json:"value,omitempty"`
	Callee      *Node   `json:"callee,omitempty"`
	Arguments   []*Node `json:"arguments,omitempty"`
	Expression  *Node   `json:"expression,omitempty"`
	Initializer *Node   `json:"initializer,omitempty"`
	Condition   *Node   `json:"condition,omitempty"`
	Then        *Node   `json:"then,omitempty"`
	Else        *Node   `json:"else,omitempty"`
	Loop        *Node   `json:"loop,omitempty"`
	Stmts       []*Node `json:"stmts,omitempty"`

	Params     []Token `json:"params,omitempty"`
	Body       []*Node `json:"body,omitempty"`
	Superclass *Token  `json:"superclass,omitempty"`
	Methods    []*Node `json:"methods,omitempty"`

	Function string `json:"function,omitempty"`
	Package  string `json:"package,omitempty"`
}

// New returns an empty lock
func New() *Lock {
	return &Lock{Packages: []*Package{}}
}

// Load reads the lock at path. A missing file is created empty.
// Packages carrying a checksum are verified.
func Load(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		lock := New()
		if err := Write(path, lock); err != nil {
			return nil, err
		}
		return lock, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read lock %s: %w", path, err)
	}

	lock := New()
	if err := json.Unmarshal(data, lock); err != nil {
		return nil, fmt.Errorf("decode lock %s: %w", path, err)
	}
	if lock.Packages == nil {
		lock.Packages = []*Package{}
	}
	lock.Size = int64(len(data))

	for i, pkg := range lock.Packages {
		if pkg == nil {
			return nil, fmt.Errorf("decode lock %s: %w: package %d is null", path, ErrMalformed, i)
		}
		for j, fn := range pkg.Functions {
			if fn == nil {
				return nil, fmt.Errorf("decode lock %s: %w: function %d of %s is null", path, ErrMalformed, j, pkg.Name)
			}
		}
		if err := pkg.Verify(); err != nil {
			return nil, fmt.Errorf("lock %s: %w", path, err)
		}
	}
	return lock, nil
}

// Write replaces the file at path with the indented encoding of lock
func Write(path string, lock *Lock) error {
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lock: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write lock %s: %w", path, err)
	}
	lock.Size = int64(len(data))
	return nil
}

// Package returns the installed package called name, or nil
func (l *Lock) Package(name string) *Package {
	for _, pkg := range l.Packages {
		if pkg.Name == name {
			return pkg
		}
	}
	return nil
}

// Find returns function fn of package pkg, or nil
func (l *Lock) Find(pkg, fn string) *Function {
	if p := l.Package(pkg); p != nil {
		return p.Function(fn)
	}
	return nil
}

// Add appends pkg, replacing an installed package with the same name
func (l *Lock) Add(pkg *Package) {
	for i, p := range l.Packages {
		if p.Name == pkg.Name {
			l.Packages[i] = pkg
			return
		}
	}
	l.Packages = append(l.Packages, pkg)
}

// Function returns the function called name, or nil
func (p *Package) Function(name string) *Function {
	for _, fn := range p.Functions {
		if fn.Name.Lexeme == name {
			return fn
		}
	}
	return nil
}

// Digest hashes the canonical encoding of functions
func Digest(functions []*Function) (string, error) {
	data, err := json.Marshal(functions)
	if err != nil {
		return "", fmt.Errorf("encode functions: %w", err)
	}
	h := blake3.New()
	h.Write(data)
	return checksumPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// Seal records the digest of the package functions
func (p *Package) Seal() error {
	sum, err := Digest(p.Functions)
	if err != nil {
		return err
	}
	p.Checksum = sum
	return nil
}

// Verify checks the recorded digest. Packages without one are accepted.
func (p *Package) Verify() error {
	if p.Checksum == "" {
		return nil
	}
	if !strings.HasPrefix(p.Checksum, checksumPrefix) {
		return fmt.Errorf("package %s: unsupported checksum %q", p.Name, p.Checksum)
	}
	sum, err := Digest(p.Functions)
	if err != nil {
		return err
	}
	if sum != p.Checksum {
		return fmt.Errorf("package %s: %w", p.Name, ErrChecksum)
	}
	return nil
}
