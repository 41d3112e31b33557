package validate

import (
	"regexp"
	"strconv"
	"strings"

	"stocktrack/internal/domain"
)

var (
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)
	reSort     = regexp.MustCompile(`^(id|name|unit|category|brand|stock|status|image)$`)
)

// MaxPageSize caps the limit query parameter.
const MaxPageSize = domain.MaxPageSize

// ProductID parses a positive integer id from a path segment.
func ProductID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// ProductIDs validates a custom export selection; it must be non-empty and
// contain only positive ids. Duplicates are dropped.
func ProductIDs(ids []int64) ([]int64, bool) {
	if len(ids) == 0 {
		return nil, false
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id < 1 {
			return nil, false
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, true
}

// SortField accepts only known product columns. Empty means id.
func SortField(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "id", true
	}
	return s, reSort.MatchString(s)
}

// SortDesc reads asc/desc (any case). Empty means ascending.
func SortDesc(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return false, true
	case "desc":
		return true, true
	}
	return false, false
}

// Page parses a 1-based page number, defaulting to 1 and clamping to domain.MaxPage.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > domain.MaxPage {
		return domain.MaxPage
	}
	return n
}

// Limit parses a page size, falling back to def and clamping to MaxPageSize.
func Limit(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Filter trims a free-text filter and bounds its length.
func Filter(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 100
}

// Username validates an account name.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password accepts 8 to 72 bytes containing at least one
// lower-case letter, upper-case letter, digit and other character.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
