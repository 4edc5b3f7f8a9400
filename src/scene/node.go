package scene

import "roi-overlay/src/geometry"

// Style is the SVG presentation of a node.
type Style struct {
	Fill            string
	Stroke          string
	StrokeWidth     float64
	StrokeDasharray string

	// NonScalingStroke keeps the stroke width constant under zoom.
	NonScalingStroke bool
	// PassThrough lets pointer events reach whatever is underneath.
	PassThrough bool
}

// GhostStyle is the dashed yellow look of the selection overlay.
var GhostStyle = Style{
	Fill:             "rgba(214, 203, 0, 0.2)",
	Stroke:           "rgba(214, 203, 0, 1)",
	StrokeWidth:      2,
	StrokeDasharray:  "10,5",
	NonScalingStroke: true,
	PassThrough:      true,
}

// RectNode is a rectangle in the scene's local space. It implements
// overlay.Element.
type RectNode struct {
	ID      string
	Rect    geometry.Rect
	Visible bool
	Style   Style
}

// NewGhostRect returns the hidden, zero-size overlay node.
func NewGhostRect(id string) *RectNode {
	return &RectNode{ID: id, Style: GhostStyle}
}

// SetGeometry implements overlay.Element.
func (n *RectNode) SetGeometry(r geometry.Rect) { n.Rect = r }

// SetVisible implements overlay.Element.
func (n *RectNode) SetVisible(v bool) { n.Visible = v }
