package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TermName identifies the season of an academic term as stored in the
// legacy "term" columns.
type TermName string

// Term names.
const (
	TermSpring TermName = "SP"
	TermSummer TermName = "SM"
	TermFall   TermName = "FA"
)

// IsValid reports whether the term name is one of the known seasons.
func (n TermName) IsValid() bool {
	switch n {
	case TermSpring, TermSummer, TermFall:
		return true
	}
	return false
}

// order returns the position of the season within a calendar year.
func (n TermName) order() int {
	switch n {
	case TermSpring:
		return 1
	case TermSummer:
		return 2
	case TermFall:
		return 3
	}
	return 0
}

// Years representable by a two-digit "term_yr" column.
const (
	MinTermYear = 1981
	MaxTermYear = 2080
)

// TermKey identifies an academic term by season and four-digit year.
// Legacy tables store the year as a two-digit "term_yr" value, so only
// years from MinTermYear to MaxTermYear can be stored.
type TermKey struct {
	Name TermName
	Year int
}

// IsValid reports whether the key has a known season and a year that
// survives the two-digit column encoding.
func (k TermKey) IsValid() bool {
	return k.Name.IsValid() && k.Year >= MinTermYear && k.Year <= MaxTermYear
}

// NewTermKey creates a new TermKey.
func NewTermKey(name TermName, year int) TermKey {
	return TermKey{Name: name, Year: year}
}

// TermKeyFromColumns builds a TermKey from the "term" and "term_yr" column
// values. Two-digit years above 80 belong to the 1900s.
func TermKeyFromColumns(term string, termYr int32) TermKey {
	year := int(termYr)
	switch {
	case year >= 100:
	case year > 80:
		year += 1900
	default:
		year += 2000
	}
	return TermKey{Name: TermName(strings.TrimSpace(term)), Year: year}
}

// ShortYear returns the two-digit year stored in "term_yr" columns.
func (k TermKey) ShortYear() int32 {
	return int32(k.Year % 100)
}

// String returns the compact form used in reports, such as "FA21".
func (k TermKey) String() string {
	return fmt.Sprintf("%s%02d", k.Name, k.ShortYear())
}

// Compare orders terms chronologically. It returns -1, 0 or +1.
func (k TermKey) Compare(o TermKey) int {
	switch {
	case k.Year < o.Year:
		return -1
	case k.Year > o.Year:
		return 1
	}
	a, b := k.Name.order(), o.Name.order()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ParseTermKey parses the compact form produced by String, for example
// "SP24". Four-digit years ("SP2024") are accepted when they fall between
// MinTermYear and MaxTermYear.
func ParseTermKey(s string) (TermKey, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 4 {
		return TermKey{}, NewValidationError("term", fmt.Sprintf("invalid term %q", s))
	}
	name := TermName(s[:2])
	if !name.IsValid() {
		return TermKey{}, NewValidationError("term", fmt.Sprintf("unknown term name %q", s[:2]))
	}

	digits := s[2:]
	if (len(digits) != 2 && len(digits) != 4) || strings.Trim(digits, "0123456789") != "" {
		return TermKey{}, NewValidationError("term", fmt.Sprintf("invalid term year %q", digits))
	}
	yr, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return TermKey{}, NewValidationError("term", fmt.Sprintf("invalid term year %q", digits))
	}

	key := TermKeyFromColumns(string(name), int32(yr))
	if !key.IsValid() {
		return TermKey{}, NewValidationError("term", fmt.Sprintf("term year %d outside %d-%d", key.Year, MinTermYear, MaxTermYear))
	}
	return key, nil
}
