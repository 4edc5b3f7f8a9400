package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

const iconSize = 16

// Icon draws the tray icon: a dashed selection rectangle in the overlay's
// colour on a transparent background, PNG encoded.
func Icon() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	stroke := color.NRGBA{R: 214, G: 203, B: 0, A: 255}
	fill := color.NRGBA{R: 214, G: 203, B: 0, A: 51}

	const lo, hi = 2, iconSize - 3
	for y := lo; y <= hi; y++ {
		for x := lo; x <= hi; x++ {
			edge := x == lo || x == hi || y == lo || y == hi
			switch {
			case edge && (x+y)%4 < 3:
				img.SetNRGBA(x, y, stroke)
			case !edge:
				img.SetNRGBA(x, y, fill)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
