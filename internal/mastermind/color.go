package mastermind

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidColor is returned when a color name is outside the fixed set.
var ErrInvalidColor = errors.New("invalid color")

// Color is one of the fixed peg colors. The set is closed: the game has
// exactly six colors, there is no open extension.
type Color uint8

const (
	Red Color = iota
	Blue
	Green
	White
	Yellow
	Orange
)

var colorNames = [...]string{"red", "blue", "green", "white", "yellow", "orange"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// ParseColor resolves a case-insensitive color name.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// ParseCode resolves a whole code of color names. On the first unknown
// name it fails with ErrInvalidColor and returns no partial code.
func ParseCode(names []string) ([]Color, error) {
	code := make([]Color, len(names))
	for i, s := range names {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		code[i] = c
	}
	return code, nil
}

// CodeNames renders a code back to its lowercase color names.
func CodeNames(code []Color) []string {
	names := make([]string, len(code))
	for i, c := range code {
		names[i] = c.String()
	}
	return names
}
