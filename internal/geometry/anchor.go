package geometry

import (
	"fmt"
	"strings"
)

// Anchor is one of the nine fixed screen positions a banner can be pinned to.
type Anchor string

const (
	TopLeft      Anchor = "top-left"
	TopMiddle    Anchor = "top-middle"
	TopRight     Anchor = "top-right"
	MiddleLeft   Anchor = "middle-left"
	MiddleCenter Anchor = "middle-center"
	MiddleRight  Anchor = "middle-right"
	BottomLeft   Anchor = "bottom-left"
	BottomMiddle Anchor = "bottom-middle"
	BottomRight  Anchor = "bottom-right"
)

// DefaultAnchor is used when no position has been configured.
const DefaultAnchor = TopMiddle

// Anchors lists all nine positions in row-major screen order.
var Anchors = []Anchor{
	TopLeft, TopMiddle, TopRight,
	MiddleLeft, MiddleCenter, MiddleRight,
	BottomLeft, BottomMiddle, BottomRight,
}

// ParseAnchor converts a user-supplied position name to an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	name := Anchor(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range Anchors {
		if a == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown position %q (valid: %s)", s, strings.Join(AnchorNames(), ", "))
}

// AnchorNames returns the nine position names in row-major order.
func AnchorNames() []string {
	names := make([]string, len(Anchors))
	for i, a := range Anchors {
		names[i] = string(a)
	}
	return names
}

// Next returns the anchor that follows a in row-major order, wrapping around.
// Used by the cycle hotkey.
func (a Anchor) Next() Anchor {
	for i, cand := range Anchors {
		if cand == a {
			return Anchors[(i+1)%len(Anchors)]
		}
	}
	return DefaultAnchor
}

// horizontal returns -1, 0, or 1 for left, center, right columns.
func (a Anchor) horizontal() int {
	switch a {
	case TopLeft, MiddleLeft, BottomLeft:
		return -1
	case TopRight, MiddleRight, BottomRight:
		return 1
	default:
		return 0
	}
}

// vertical returns -1, 0, or 1 for top, middle, bottom rows.
func (a Anchor) vertical() int {
	switch a {
	case TopLeft, TopMiddle, TopRight:
		return -1
	case BottomLeft, BottomMiddle, BottomRight:
		return 1
	default:
		return 0
	}
}
