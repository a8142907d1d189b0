package clause

import (
	"strings"
)

// Separator splits the levels of a clause number.
const Separator = "."

// Segments returns the non-empty dot segments of a clause number.
func Segments(number string) []string {
	raw := strings.Split(strings.TrimSpace(number), Separator)
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

// Normalize returns the canonical tree path for a number. Malformed numbers
// ("5..1", "5.") keep their non-empty segments.
func Normalize(number string) string {
	segments := Segments(number)
	if len(segments) == 0 {
		return strings.TrimSpace(number)
	}
	return strings.Join(segments, Separator)
}

// Ancestors returns every prefix path of number, outermost first, ending with
// the number itself: "5.1.2" yields ["5", "5.1", "5.1.2"].
func Ancestors(number string) []string {
	segments := Segments(number)
	if len(segments) == 0 {
		return []string{Normalize(number)}
	}
	chain := make([]string, len(segments))
	for i := range segments {
		chain[i] = strings.Join(segments[:i+1], Separator)
	}
	return chain
}

// Parent returns the path of the immediate parent, or "" for a top level
// number.
func Parent(number string) string {
	chain := Ancestors(number)
	if len(chain) < 2 {
		return ""
	}
	return chain[len(chain)-2]
}

// IsDescendant reports whether child is a strict dot-extension of parent.
func IsDescendant(parent, child string) bool {
	parent = Normalize(parent)
	child = Normalize(child)
	return strings.HasPrefix(child, parent+Separator)
}

// Compare orders clause numbers naturally: segments are compared numerically
// when both are unsigned integers and lexicographically otherwise, so "5.9"
// sorts before "5.10". It returns -1, 0 or +1.
func Compare(a, b string) int {
	as := Segments(a)
	bs := Segments(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func compareSegment(a, b string) int {
	if isDigits(a) && isDigits(b) {
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
