package internal

import (
	"fmt"

	"lin/internal/lockfile"
)

// importer resolves import statements against the lock files
type importer struct {
	cfg *Config
}

func newImporter(cfg *Config) *importer {
	return &importer{cfg: cfg}
}

// resolve finds function name of package pkg. When the lock does not have
// it the package is installed into the temporary lock and looked up there
// once more.
func (im *importer) resolve(pkg, name string) (*fnStmt, error) {
	lock, err := lockfile.Load(im.cfg.LockPath)
	if err != nil {
		return nil, err
	}
	if fn := lock.Find(pkg, name); fn != nil {
		return decodeFunction(fn)
	}

	im.cfg.logger().Infof("Package '%s' not found, attempting to install...", pkg)
	if _, err := Install(im.cfg, pkg, true); err != nil {
		return nil, err
	}

	temp, err := lockfile.Load(im.cfg.TempLockPath)
	if err != nil {
		return nil, err
	}
	if fn := temp.Find(pkg, name); fn != nil {
		return decodeFunction(fn)
	}
	return nil, fmt.Errorf("function '%s' not found in package '%s'", name, pkg)
}
