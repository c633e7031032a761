package vanity

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidColor = errors.New("color must be a hex value like #ff33cc")

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsValidColor accepts exactly "#" followed by six hex digits.
func IsValidColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// ParseColor converts a validated "#rrggbb" string to the integer form Discord expects.
func ParseColor(s string) (int, error) {
	if !IsValidColor(s) {
		return 0, ErrInvalidColor
	}
	v, err := strconv.ParseInt(s[1:], 16, 32)
	if err != nil {
		return 0, ErrInvalidColor
	}
	return int(v), nil
}

// Sanitizer cleans up user-supplied role names.
type Sanitizer struct {
	MaxLength int
	// Banned words are matched as case-insensitive substrings,
	// so "mod" also rejects "Moderately".
	Banned []string
}

var DefaultSanitizer = Sanitizer{
	MaxLength: 32,
	Banned:    []string{"admin", "mod", "owner"},
}

// SanitizeName runs DefaultSanitizer.
func SanitizeName(raw string) (string, bool) {
	return DefaultSanitizer.Sanitize(raw)
}

// Sanitize trims, truncates to MaxLength characters, then rejects empty
// names and names containing a banned word. ok is false on rejection.
func (s Sanitizer) Sanitize(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if s.MaxLength > 0 {
		if r := []rune(name); len(r) > s.MaxLength {
			name = string(r[:s.MaxLength])
		}
	}
	if name == "" {
		return "", false
	}

	lower := strings.ToLower(name)
	for _, word := range s.Banned {
		if word == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(word)) {
			return "", false
		}
	}
	return name, true
}
