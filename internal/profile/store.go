package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/gopasspw/gopass/pkg/appdir"
	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
)

// storeFile is the name of the profile store document.
const storeFile = "profiles.json"

// DefaultPath returns the profile store location inside the user's config
// directory, e.g. ~/.config/gituser/profiles.json.
func DefaultPath() string {
	return filepath.Join(appdir.New("gituser").UserConfig(), storeFile)
}

// Store is the persisted, ordered collection of identity profiles. It is
// fully read into memory on Load and fully rewritten on every mutation.
//
// There is no file locking. Concurrent invocations racing on the same store
// file are not supported.
type Store struct {
	path string
	ids  []Identity
}

// Load reads the store document at the given path. A missing or empty file
// yields an empty store. A file that exists but does not parse yields an
// error wrapping ErrStorage.
func Load(path string) (*Store, error) {
	s := &Store{path: path}

	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		debug.Log("no profile store at %s, starting empty", path)

		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorage, path, err)
	}

	if strings.TrimSpace(string(buf)) == "" {
		return s, nil
	}

	if err := json.Unmarshal(buf, &s.ids); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrStorage, path, err)
	}

	debug.V(1).Log("loaded %d profiles from %s", len(s.ids), path)

	return s, nil
}

// Save rewrites the whole store document. The parent directory is created if
// needed.
func (s *Store) Save() error {
	buf, err := json.MarshalIndent(s.ids, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding profiles: %v", ErrStorage, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: creating directory for %s: %v", ErrStorage, s.path, err)
	}

	if err := os.WriteFile(s.path, append(buf, '\n'), 0o600); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrStorage, s.path, err)
	}

	debug.V(1).Log("wrote %d profiles to %s", len(s.ids), s.path)

	return nil
}

// Add appends a new profile and persists the store. The in-memory state is
// rolled back if the write fails, so a failed Add leaves nothing behind.
func (s *Store) Add(id Identity) error {
	if _, err := s.Find(id.Alias); err == nil {
		return fmt.Errorf("%w: %q", ErrDuplicateAlias, id.Alias)
	}

	old := s.ids
	s.ids = append(slices.Clone(s.ids), id)
	if err := s.Save(); err != nil {
		s.ids = old

		return err
	}

	return nil
}

// Delete removes the profile with the given alias and persists the store,
// preserving the order of the surviving profiles. Like Add it rolls back the
// in-memory state if the write fails.
func (s *Store) Delete(alias string) error {
	idx := slices.IndexFunc(s.ids, func(id Identity) bool {
		return id.Alias == alias
	})
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, alias)
	}

	old := s.ids
	s.ids = slices.Delete(slices.Clone(s.ids), idx, idx+1)
	if err := s.Save(); err != nil {
		s.ids = old

		return err
	}

	return nil
}

// Find returns the profile with the given alias. Matching is case-sensitive.
func (s *Store) Find(alias string) (Identity, error) {
	for _, id := range s.ids {
		if id.Alias == alias {
			return id, nil
		}
	}

	return Identity{}, fmt.Errorf("%w: %q", ErrNotFound, alias)
}

// List returns all profiles in insertion order.
func (s *Store) List() []Identity {
	return slices.Clone(s.ids)
}

// Glob returns the profiles whose alias matches the given glob pattern, in
// insertion order.
func (s *Store) Glob(pattern string) ([]Identity, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	out := make([]Identity, 0, len(s.ids))
	for _, id := range s.ids {
		if g.Match(id.Alias) {
			out = append(out, id)
		}
	}

	return out, nil
}

// Aliases returns all aliases, sorted. Listing output keeps insertion order,
// this is for shell completion and similar lookups.
func (s *Store) Aliases() []string {
	as := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		as = append(as, id.Alias)
	}

	return set.Sorted(as)
}

// Len returns the number of stored profiles.
func (s *Store) Len() int {
	return len(s.ids)
}

// Path returns the location of the store document.
func (s *Store) Path() string {
	return s.path
}
