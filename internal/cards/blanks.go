package cards

import (
	"errors"
	"strings"
)

// ErrBadWidth is returned by ExpandBlanks for a non-positive width.
var ErrBadWidth = errors.New("cards: blank width must be positive")

// ExpandBlanks widens every underscore in src to width underscores, so a prompt
// written as "I like _." renders with a visible gap.
func ExpandBlanks(src string, width int) (string, error) {
	if width <= 0 {
		return "", ErrBadWidth
	}
	if width == 1 {
		return src, nil
	}
	return strings.ReplaceAll(src, "_", strings.Repeat("_", width)), nil
}
