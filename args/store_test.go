package args_test

import (
	"testing"

	"github.com/j-stam/goshell/args"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStore_ArgDefault verifies Arg returns the default for absent names.
func TestStore_ArgDefault(t *testing.T) {
	t.Parallel()

	s := args.Parse([]string{"prog", "--present"})

	assert.Equal(t, false, s.Arg("missing", false))
	assert.Equal(t, "fallback", s.Arg("missing", "fallback"))
	assert.Nil(t, s.Arg("missing", nil))
	assert.Equal(t, true, s.Arg("present", false))
}

// TestStore_Lookup verifies Value accessors for flags and literals.
func TestStore_Lookup(t *testing.T) {
	t.Parallel()

	s := args.Parse([]string{"prog", "--mode", "full", "-q"})

	mode, ok := s.Lookup("mode")
	require.True(t, ok)
	assert.False(t, mode.IsFlag())
	assert.Equal(t, "full", mode.Text())
	assert.Equal(t, `"full"`, mode.String())

	quiet, ok := s.Lookup("q")
	require.True(t, ok)
	assert.True(t, quiet.IsFlag())
	assert.Equal(t, "", quiet.Text())
	assert.Equal(t, "true", quiet.String())

	_, ok = s.Lookup("nope")
	assert.False(t, ok)
}

// TestStore_StringOr verifies flags and absent names fall back to the default.
func TestStore_StringOr(t *testing.T) {
	t.Parallel()

	s := args.Parse([]string{"prog", "--out", "x.json", "--all"})

	assert.Equal(t, "x.json", s.StringOr("out", "def"))
	assert.Equal(t, "def", s.StringOr("all", "def"))
	assert.Equal(t, "def", s.StringOr("missing", "def"))
}

// TestStore_NamesSorted verifies Names is sorted and Len counts distinct names.
func TestStore_NamesSorted(t *testing.T) {
	t.Parallel()

	s := args.Parse([]string{"prog", "--zeta", "-alpha", "mid", "--zeta"})

	assert.Equal(t, []string{"alpha", "zeta"}, s.Names())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "mid", s.Arg("alpha", nil))
}

// TestStore_NilSafe verifies a nil store reads as empty.
func TestStore_NilSafe(t *testing.T) {
	t.Parallel()

	var s *args.Store

	assert.False(t, s.Has("x"))
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Names())
	assert.Empty(t, s.Map())
	assert.Equal(t, "d", s.Arg("x", "d"))
	assert.False(t, s.HelpRequested())
}

// TestValue_Constructors verifies Flag and Literal.
func TestValue_Constructors(t *testing.T) {
	t.Parallel()

	assert.True(t, args.Flag().IsFlag())
	assert.Equal(t, true, args.Flag().Any())

	lit := args.Literal("")
	assert.False(t, lit.IsFlag())
	assert.Equal(t, "", lit.Any())
}
