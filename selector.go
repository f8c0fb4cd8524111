package sculptor

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MinNeedleLength is the shortest search string a SubstringSelector accepts.
// Shorter needles match too much of a typical dataset.
const MinNeedleLength = 3

// ErrNeedleTooShort is returned by NewSubstringSelector for needles under MinNeedleLength.
var ErrNeedleTooShort = errors.New("sculptor: search string must be at least 3 characters")

// SubstringSelector picks assets whose path contains a needle (case-sensitive).
// The zero value is invalid and matches nothing.
type SubstringSelector struct {
	needle string
}

// NewSubstringSelector validates needle. This is the only place the length
// guard runs; matching never re-checks it.
func NewSubstringSelector(needle string) (SubstringSelector, error) {
	if utf8.RuneCountInString(needle) < MinNeedleLength {
		return SubstringSelector{}, ErrNeedleTooShort
	}
	return SubstringSelector{needle: needle}, nil
}

// Needle returns the configured search string.
func (s SubstringSelector) Needle() string { return s.needle }

// Valid reports whether s was built by NewSubstringSelector.
func (s SubstringSelector) Valid() bool { return s.needle != "" }

// Matches reports whether path contains the needle.
func (s SubstringSelector) Matches(path string) bool {
	return s.Valid() && strings.Contains(path, s.needle)
}
