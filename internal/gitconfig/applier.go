package gitconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gopasspw/gopass/pkg/appdir"
	"github.com/gopasspw/gopass/pkg/debug"
)

// Applier pushes a git identity into the active configuration and reads the
// currently configured one back. It is the only part of gituser touching
// state outside the profile store, so it is kept behind an interface that
// tests can substitute.
type Applier interface {
	// Apply sets user.name and user.email.
	Apply(name, email string) error
	// Current returns the configured user.name and user.email. An identity
	// that is not configured at all yields empty strings, not an error.
	Current() (name, email string, err error)
}

// GlobalApplier reads and writes the per-user (git calls it "global") config
// file directly instead of shelling out to git.
type GlobalApplier struct {
	path string
}

// NewGlobalApplier returns an applier bound to the default global git config
// location.
func NewGlobalApplier() *GlobalApplier {
	return &GlobalApplier{path: GlobalPath()}
}

// NewGlobalApplierAt returns an applier bound to the given config file.
// Mostly useful for tests.
func NewGlobalApplierAt(path string) *GlobalApplier {
	return &GlobalApplier{path: path}
}

// GlobalPath locates the per-user git config file. Git reads
// $XDG_CONFIG_HOME/git/config before ~/.gitconfig but only writes there when
// it already exists, so we follow the same rule.
func GlobalPath() string {
	if p := filepath.Join(appdir.New("git").UserConfig(), "config"); fileExists(p) {
		return p
	}

	return filepath.Join(appdir.UserHome(), ".gitconfig")
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)

	return err == nil && fi.Mode().IsRegular()
}

// Apply sets user.name and user.email in the global config, creating the
// file if it does not exist yet. Everything else in the file is preserved.
func (a *GlobalApplier) Apply(name, email string) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	if err := cfg.Set("user.name", name); err != nil {
		return fmt.Errorf("%w: setting user.name in %s: %v", ErrApply, a.path, err)
	}
	if err := cfg.Set("user.email", email); err != nil {
		return fmt.Errorf("%w: setting user.email in %s: %v", ErrApply, a.path, err)
	}

	debug.Log("applied identity %s <%s> to %s", name, email, a.path)

	return nil
}

// Current returns the identity from the global config. A missing config file
// or unset keys yield empty strings.
func (a *GlobalApplier) Current() (string, string, error) {
	cfg, err := LoadConfig(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: reading %s: %v", ErrApply, a.path, err)
	}

	name, _ := cfg.Get("user.name")
	email, _ := cfg.Get("user.email")

	return name, email, nil
}

func (a *GlobalApplier) load() (*Config, error) {
	cfg, err := LoadConfig(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(a.path), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrApply, a.path, err)
	}

	return cfg, nil
}
