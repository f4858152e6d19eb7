// Package slug generates and resolves the URL-safe identifiers funnels are
// published under. Uniqueness is owner-scoped and checked through an injected
// availability func so the package stays storage-free.
package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrSlugExhausted is returned when no free slug is found within the suffix cap.
var ErrSlugExhausted = errors.New("could not generate a unique slug after 100 attempts")

// maxAttempts bounds the -1, -2, ... suffix search.
const maxAttempts = 100

var (
	nonWord         = regexp.MustCompile(`[^\w\-]+`)
	repeatedHyphens = regexp.MustCompile(`\-\-+`)
	validSlug       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify turns a display name into a slug candidate: lowercase, whitespace
// to hyphens, non-word characters stripped, repeated hyphens collapsed,
// leading/trailing hyphens trimmed. Names that strip down to nothing (e.g.
// fully non-Latin input) fall back to a timestamped placeholder so the result
// is never empty.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.Join(strings.Fields(s), "-")
	s = nonWord.ReplaceAllString(s, "")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return fmt.Sprintf("funnel-%d", time.Now().Unix())
	}
	return s
}

// Valid reports whether s is a well-formed slug.
func Valid(s string) bool {
	return validSlug.MatchString(s)
}

// AvailabilityFunc answers whether a slug is free within the owner's scope.
// excludeID skips the funnel being renamed so it does not collide with itself.
type AvailabilityFunc func(slug string, excludeID string) (bool, error)

// EnsureUnique returns candidate unchanged when it is free, otherwise the
// first free candidate-N suffix. The search is capped; past the cap it fails
// with ErrSlugExhausted.
func EnsureUnique(candidate string, excludeID string, available AvailabilityFunc) (string, error) {
	free, err := available(candidate, excludeID)
	if err != nil {
		return "", err
	}
	if free {
		return candidate, nil
	}

	for i := 1; i <= maxAttempts; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		free, err := available(next, excludeID)
		if err != nil {
			return "", err
		}
		if free {
			return next, nil
		}
	}

	return "", ErrSlugExhausted
}
