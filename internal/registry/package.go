// Package registry holds the package registry: its wire types, the HTTP
// server backed by sqlite, and the client used by install and contribute.
package registry

import (
	"errors"
	"fmt"

	"github.com/ahrtr/gocontainer/set"
)

var (
	// ErrNotFound is returned for packages the registry does not know
	ErrNotFound = errors.New("package not found")
	// ErrExists is returned when contributing a name already taken
	ErrExists = errors.New("package already exists")
	// ErrInvalid is returned for packages that cannot be published
	ErrInvalid = errors.New("invalid package")
	// ErrRejected is returned by the client when the registry refuses a contribution
	ErrRejected = errors.New("contribution rejected")
)

// Function is a function as authors publish it: each body entry is one
// statement of lin source.
type Function struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
	Body   []string `json:"body"`
}

// Package is the published form of a package
type Package struct {
	Name      string     `json:"name"`
	Version   string     `json:"version"`
	Functions []Function `json:"functions"`
}

// Validate rejects packages without a name and packages declaring the
// same function twice.
func (p *Package) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	names := set.New()
	for _, fn := range p.Functions {
		if fn.Name == "" {
			return fmt.Errorf("%w: function without a name in %s", ErrInvalid, p.Name)
		}
		if names.Contains(fn.Name) {
			return fmt.Errorf("%w: function %s declared twice in %s", ErrInvalid, fn.Name, p.Name)
		}
		names.Add(fn.Name)
	}
	return nil
}
