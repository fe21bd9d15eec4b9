package gitconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCreatesConfig(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), ".gitconfig")
	a := NewGlobalApplierAt(fn)

	require.NoError(t, a.Apply("bob", "bob@y.com"))

	buf, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, `[user]
	name = bob
	email = bob@y.com
`, string(buf))

	name, email, err := a.Current()
	require.NoError(t, err)
	assert.Equal(t, "bob", name)
	assert.Equal(t, "bob@y.com", email)
}

func TestApplyPreservesUnrelatedConfig(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), ".gitconfig")
	require.NoError(t, os.WriteFile(fn, []byte(`# managed by hand
[core]
	autocrlf = input
[user]
	name = alice
	email = alice@x.com
[alias]
	st = status
`), 0o600))

	a := NewGlobalApplierAt(fn)
	require.NoError(t, a.Apply("bob", "bob@y.com"))

	buf, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, `# managed by hand
[core]
	autocrlf = input
[user]
	name = bob
	email = bob@y.com
[alias]
	st = status
`, string(buf))
}

func TestApplyTwiceSwitches(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), ".gitconfig")
	a := NewGlobalApplierAt(fn)

	require.NoError(t, a.Apply("alice", "alice@x.com"))
	require.NoError(t, a.Apply("bob", "bob@y.com"))

	name, email, err := a.Current()
	require.NoError(t, err)
	assert.Equal(t, "bob", name)
	assert.Equal(t, "bob@y.com", email)
}

func TestCurrentNoneSet(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		a := NewGlobalApplierAt(filepath.Join(t.TempDir(), ".gitconfig"))

		name, email, err := a.Current()
		require.NoError(t, err)
		assert.Empty(t, name)
		assert.Empty(t, email)
	})

	t.Run("no user section", func(t *testing.T) {
		t.Parallel()

		fn := filepath.Join(t.TempDir(), ".gitconfig")
		require.NoError(t, os.WriteFile(fn, []byte("[core]\n\tpager = less\n"), 0o600))

		a := NewGlobalApplierAt(fn)

		name, email, err := a.Current()
		require.NoError(t, err)
		assert.Empty(t, name)
		assert.Empty(t, email)
	})
}

func TestCurrentUnreadableConfig(t *testing.T) {
	t.Parallel()

	if os.Getuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	fn := filepath.Join(t.TempDir(), ".gitconfig")
	require.NoError(t, os.WriteFile(fn, []byte("[user]\n\tname = alice\n"), 0o000))

	a := NewGlobalApplierAt(fn)

	_, _, err := a.Current()
	require.ErrorIs(t, err, ErrApply)
}
