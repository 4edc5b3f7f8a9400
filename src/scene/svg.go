package scene

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

type svgDoc struct {
	XMLName xml.Name  `xml:"svg"`
	Xmlns   string    `xml:"xmlns,attr"`
	ViewBox string    `xml:"viewBox,attr"`
	Rects   []svgRect `xml:"rect"`
}

type svgRect struct {
	ID              string `xml:"id,attr,omitempty"`
	X               string `xml:"x,attr"`
	Y               string `xml:"y,attr"`
	Width           string `xml:"width,attr"`
	Height          string `xml:"height,attr"`
	Fill            string `xml:"fill,attr,omitempty"`
	Stroke          string `xml:"stroke,attr,omitempty"`
	StrokeWidth     string `xml:"stroke-width,attr,omitempty"`
	VectorEffect    string `xml:"vector-effect,attr,omitempty"`
	StrokeDasharray string `xml:"stroke-dasharray,attr,omitempty"`
	Visibility      string `xml:"visibility,attr"`
	PointerEvents   string `xml:"pointer-events,attr,omitempty"`
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteSVG renders the scene's nodes in local coordinates. The viewport is
// not applied; a host displaying the SVG applies its own pan and zoom.
func (s *Scene) WriteSVG(w io.Writer) error {
	doc := svgDoc{
		Xmlns:   "http://www.w3.org/2000/svg",
		ViewBox: fmt.Sprintf("0 0 %s %s", num(s.Width), num(s.Height)),
	}
	for _, n := range s.Nodes() {
		r := svgRect{
			ID:              n.ID,
			X:               num(n.Rect.X),
			Y:               num(n.Rect.Y),
			Width:           num(n.Rect.Width),
			Height:          num(n.Rect.Height),
			Fill:            n.Style.Fill,
			Stroke:          n.Style.Stroke,
			StrokeDasharray: n.Style.StrokeDasharray,
			Visibility:      "hidden",
		}
		if n.Style.StrokeWidth > 0 {
			r.StrokeWidth = num(n.Style.StrokeWidth)
		}
		if n.Style.NonScalingStroke {
			r.VectorEffect = "non-scaling-stroke"
		}
		if n.Style.PassThrough {
			r.PointerEvents = "none"
		}
		if n.Visible {
			r.Visibility = "visible"
		}
		doc.Rects = append(doc.Rects, r)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode svg: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
