package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()

	s, err := Load(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	return s
}

func TestAddFindList(t *testing.T) {
	t.Parallel()

	s := tempStore(t)

	require.NoError(t, s.Add(Identity{Alias: "work", Name: "alice", Email: "alice@x.com"}))
	require.NoError(t, s.Add(Identity{Alias: "home", Name: "bob", Email: "bob@y.com"}))

	ids := s.List()
	require.Len(t, ids, 2)
	assert.Equal(t, "work", ids[0].Alias)
	assert.Equal(t, "home", ids[1].Alias)

	id, err := s.Find("work")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Name)
	assert.Equal(t, "alice@x.com", id.Email)

	require.NoError(t, s.Delete("work"))

	ids = s.List()
	require.Len(t, ids, 1)
	assert.Equal(t, "home", ids[0].Alias)

	_, err = s.Find("work")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddDuplicateAlias(t *testing.T) {
	t.Parallel()

	s := tempStore(t)

	require.NoError(t, s.Add(Identity{Alias: "work", Name: "alice", Email: "alice@x.com"}))

	before := s.List()
	err := s.Add(Identity{Alias: "work", Name: "mallory", Email: "mallory@z.com"})
	require.ErrorIs(t, err, ErrDuplicateAlias)
	assert.Equal(t, before, s.List())

	// the persisted copy is unchanged, too
	reloaded, err := Load(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, reloaded.List())
}

func TestDeleteMissing(t *testing.T) {
	t.Parallel()

	s := tempStore(t)

	require.NoError(t, s.Add(Identity{Alias: "work", Name: "alice", Email: "alice@x.com"}))

	before := s.List()
	err := s.Delete("nope")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, s.List())
}

func TestDeletePreservesOrder(t *testing.T) {
	t.Parallel()

	s := tempStore(t)

	for _, alias := range []string{"one", "two", "three", "four"} {
		require.NoError(t, s.Add(Identity{Alias: alias, Name: "u-" + alias, Email: alias + "@x.com"}))
	}
	require.NoError(t, s.Delete("two"))

	ids := s.List()
	require.Len(t, ids, 3)
	assert.Equal(t, "one", ids[0].Alias)
	assert.Equal(t, "three", ids[1].Alias)
	assert.Equal(t, "four", ids[2].Alias)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	s := tempStore(t)

	want := []Identity{
		{Alias: "work", Name: "alice", Email: "alice@x.com"},
		{Alias: "home", Name: "bob", Email: "bob@y.com"},
		{Alias: "oss", Name: "carol", Email: "carol@z.com"},
	}
	for _, id := range want {
		require.NoError(t, s.Add(id))
	}

	reloaded, err := Load(s.Path())
	require.NoError(t, err)
	assert.Equal(t, want, reloaded.List())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "nope", "profiles.json"))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(fn, []byte("\n"), 0o600))

	s, err := Load(fn)
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

func TestLoadCorruptFile(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(fn, []byte("{not json"), 0o600))

	_, err := Load(fn)
	require.ErrorIs(t, err, ErrStorage)
}

func TestSaveFailureRollsBack(t *testing.T) {
	t.Parallel()

	if os.Getuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	td := t.TempDir()
	s, err := Load(filepath.Join(td, "profiles.json"))
	require.NoError(t, err)

	// make the store directory read-only so the write fails
	require.NoError(t, os.Chmod(td, 0o500))
	t.Cleanup(func() {
		_ = os.Chmod(td, 0o700)
	})

	err = s.Add(Identity{Alias: "work", Name: "alice", Email: "alice@x.com"})
	require.ErrorIs(t, err, ErrStorage)
	assert.Zero(t, s.Len())
}

func TestGlob(t *testing.T) {
	t.Parallel()

	s := tempStore(t)

	for _, alias := range []string{"work-gh", "work-gl", "home"} {
		require.NoError(t, s.Add(Identity{Alias: alias, Name: "u-" + alias, Email: alias + "@x.com"}))
	}

	ids, err := s.Glob("work-*")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "work-gh", ids[0].Alias)
	assert.Equal(t, "work-gl", ids[1].Alias)

	ids, err = s.Glob("nope*")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = s.Glob("[invalid")
	require.Error(t, err)
}

func TestAliasesSorted(t *testing.T) {
	t.Parallel()

	s := tempStore(t)

	for _, alias := range []string{"zulu", "alpha", "mike"} {
		require.NoError(t, s.Add(Identity{Alias: alias, Name: "u-" + alias, Email: alias + "@x.com"}))
	}

	assert.Equal(t, []string{"alpha", "mike", "zulu"}, s.Aliases())
}
