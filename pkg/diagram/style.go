package diagram

import (
	"strings"

	"github.com/matzehuels/archviz/pkg/errors"
)

// LineStyle is the stroke pattern of an edge.
type LineStyle int

const (
	Solid LineStyle = iota
	Dashed
	Dotted
)

var lineStyleNames = [...]string{Solid: "solid", Dashed: "dashed", Dotted: "dotted"}

func (s LineStyle) String() string {
	if s >= 0 && int(s) < len(lineStyleNames) {
		return lineStyleNames[s]
	}
	return "unknown"
}

// ParseLineStyle parses "solid", "dashed" or "dotted". Empty means solid.
func ParseLineStyle(s string) (LineStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solid":
		return Solid, nil
	case "dashed":
		return Dashed, nil
	case "dotted":
		return Dotted, nil
	}
	return Solid, errors.New(errors.ErrCodeInvalidStyle, "invalid line style: %q (must be solid, dashed or dotted)", s)
}

// Arrow selects which ends of an edge carry an arrowhead.
// The zero value points at the target.
type Arrow int

const (
	ArrowForward Arrow = iota
	ArrowNone
	ArrowBoth
)

func (a Arrow) String() string {
	switch a {
	case ArrowForward:
		return "forward"
	case ArrowNone:
		return "none"
	case ArrowBoth:
		return "both"
	}
	return "unknown"
}

// ParseArrow parses "forward", "none" or "both" ("bidirectional" is accepted
// as an alias). Empty means forward.
func ParseArrow(s string) (Arrow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return ArrowForward, nil
	case "none":
		return ArrowNone, nil
	case "both", "bidirectional":
		return ArrowBoth, nil
	}
	return ArrowForward, errors.New(errors.ErrCodeInvalidStyle, "invalid arrow: %q (must be forward, none or both)", s)
}

// Direction is the flow in which a group lays out its children.
// DirectionDefault inherits from the enclosing group.
type Direction int

const (
	DirectionDefault Direction = iota
	TopToBottom
	LeftToRight
)

func (d Direction) String() string {
	switch d {
	case TopToBottom:
		return "TB"
	case LeftToRight:
		return "LR"
	}
	return ""
}

// ParseDirection parses "TB" or "LR" (case-insensitive). The long forms
// "top-to-bottom" and "left-to-right" are accepted too. Empty means
// DirectionDefault.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DirectionDefault, nil
	case "tb", "top-to-bottom", "column":
		return TopToBottom, nil
	case "lr", "left-to-right", "row":
		return LeftToRight, nil
	}
	return DirectionDefault, errors.New(errors.ErrCodeInvalidInput, "invalid direction: %q (must be TB or LR)", s)
}

// EdgeStyle describes how an edge is stroked.
type EdgeStyle struct {
	Line  LineStyle
	Color string // color tag or hex value, resolved by the renderer theme
	Arrow Arrow
}

// IsHexColor reports whether c is a #RGB or #RRGGBB color.
func IsHexColor(c string) bool {
	if len(c) != 4 && len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, r := range c[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// ValidateEdgeColor accepts an empty color, a hex color, or a color tag made
// of ASCII letters ("red", "darkgreen"). Anything else fails with INVALID_STYLE.
func ValidateEdgeColor(c string) error {
	if c == "" || IsHexColor(c) {
		return nil
	}
	for _, r := range c {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return errors.New(errors.ErrCodeInvalidStyle, "invalid edge color: %q (must be a color name or #RGB/#RRGGBB)", c)
		}
	}
	return nil
}
