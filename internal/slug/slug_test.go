package slug_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/funnelforge/api/internal/slug"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "My Funnel", "my-funnel"},
		{"strips punctuation", "Launch!!! Sale (2024)", "launch-sale-2024"},
		{"collapses whitespace", "  big   summer   sale  ", "big-summer-sale"},
		{"collapses hyphens", "a -- b", "a-b"},
		{"trims hyphens", "-edge-", "edge"},
		{"keeps digits", "קורס דיגיטלי ב־2024!!!", "2024"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slug.Slugify(tc.in))
		})
	}
}

func TestSlugifyFallsBackWhenNothingSurvives(t *testing.T) {
	got := slug.Slugify("קורס דיגיטלי")
	assert.True(t, strings.HasPrefix(got, "funnel-"))
	assert.True(t, slug.Valid(got))
}

func TestValid(t *testing.T) {
	assert.True(t, slug.Valid("my-funnel-2"))
	assert.True(t, slug.Valid("a"))
	assert.False(t, slug.Valid(""))
	assert.False(t, slug.Valid("-leading"))
	assert.False(t, slug.Valid("trailing-"))
	assert.False(t, slug.Valid("double--hyphen"))
	assert.False(t, slug.Valid("UPPER"))
	assert.False(t, slug.Valid("has space"))
}

func takenSet(taken ...string) slug.AvailabilityFunc {
	set := map[string]bool{}
	for _, s := range taken {
		set[s] = true
	}
	return func(s, excludeID string) (bool, error) {
		return !set[s], nil
	}
}

func TestEnsureUnique(t *testing.T) {
	t.Run("Free candidate is returned unchanged", func(t *testing.T) {
		got, err := slug.EnsureUnique("demo", "", takenSet())
		assert.NoError(t, err)
		assert.Equal(t, "demo", got)
	})

	t.Run("First collision gets -1", func(t *testing.T) {
		got, err := slug.EnsureUnique("demo", "", takenSet("demo"))
		assert.NoError(t, err)
		assert.Equal(t, "demo-1", got)
	})

	t.Run("Suffix search skips taken suffixes", func(t *testing.T) {
		got, err := slug.EnsureUnique("demo", "", takenSet("demo", "demo-1", "demo-2"))
		assert.NoError(t, err)
		assert.Equal(t, "demo-3", got)
	})

	t.Run("Error - Exhausted after the cap", func(t *testing.T) {
		taken := []string{"demo"}
		for i := 1; i <= 100; i++ {
			taken = append(taken, "demo-"+strconv.Itoa(i))
		}

		_, err := slug.EnsureUnique("demo", "", takenSet(taken...))
		assert.ErrorIs(t, err, slug.ErrSlugExhausted)
	})

	t.Run("Error - Availability failure propagates", func(t *testing.T) {
		boom := errors.New("db down")
		calls := 0
		failing := func(s, excludeID string) (bool, error) {
			calls++
			return false, boom
		}

		_, err := slug.EnsureUnique("demo", "", failing)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})
}
