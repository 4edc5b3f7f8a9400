package scene

import (
	"bytes"
	"strings"
	"testing"

	"roi-overlay/src/geometry"
	"roi-overlay/src/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenCTMComposesViewport(t *testing.T) {
	s := New(800, 600)
	s.SetOrigin(geometry.Pt(100, 50))
	s.SetPan(geometry.Pt(20, 10))
	s.ScrollTo(geometry.Pt(0, 30))
	s.SetZoom(2)

	ctm, err := s.ScreenCTM()
	require.NoError(t, err)
	// 100 - 0 + 20 + 2*5, 50 - 30 + 10 + 2*5
	assert.Equal(t, geometry.Pt(130, 40), ctm.Apply(geometry.Pt(5, 5)))

	local, err := transform.ToLocal(geometry.Pt(130, 40), s)
	require.NoError(t, err)
	assert.Equal(t, geometry.Pt(5, 5), local)
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	s := New(800, 600)
	s.SetOrigin(geometry.Pt(10, 10))
	s.Pan(5, -5)

	at := geometry.Pt(210, 110)
	before, err := transform.ToLocal(at, s)
	require.NoError(t, err)

	require.NoError(t, s.ZoomAt(2.5, at))
	assert.Equal(t, 2.5, s.Zoom())

	after, err := transform.ToLocal(at, s)
	require.NoError(t, err)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestDetachedSceneHasNoTransform(t *testing.T) {
	s := New(10, 10)
	s.Detach()
	assert.False(t, s.Attached())
	_, err := s.ScreenCTM()
	assert.ErrorIs(t, err, transform.ErrTransformUnavailable)
	assert.Error(t, s.ZoomAt(2, geometry.Pt(0, 0)))

	s.Attach()
	_, err = s.ScreenCTM()
	assert.NoError(t, err)
}

func TestLookupAndRemove(t *testing.T) {
	s := New(10, 10)
	ghost := NewGhostRect("ghost_rect")
	require.NoError(t, s.Add(ghost))
	assert.ErrorIs(t, s.Add(NewGhostRect("ghost_rect")), ErrDuplicateID)

	el, ok := s.Lookup("ghost_rect")
	require.True(t, ok)
	el.SetGeometry(geometry.Rect{X: 1, Y: 1, Width: 2, Height: 2})
	el.SetVisible(true)
	assert.True(t, ghost.Visible)
	assert.Equal(t, geometry.Rect{X: 1, Y: 1, Width: 2, Height: 2}, ghost.Rect)

	s.Remove("ghost_rect")
	_, ok = s.Lookup("ghost_rect")
	assert.False(t, ok)
	assert.Nil(t, s.Node("ghost_rect"))
	assert.Empty(t, s.Nodes())
}

func TestWriteSVG(t *testing.T) {
	s := New(640, 480)
	ghost := NewGhostRect("ghost_rect")
	require.NoError(t, s.Add(&RectNode{ID: "roi-1", Rect: geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4}, Visible: true}))
	require.NoError(t, s.Add(ghost))

	var buf bytes.Buffer
	require.NoError(t, s.WriteSVG(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 640 480">`), out)
	assert.Contains(t, out, `<rect id="roi-1" x="1" y="2" width="3" height="4" visibility="visible"></rect>`)
	assert.Contains(t, out, `id="ghost_rect" x="0" y="0" width="0" height="0"`)
	assert.Contains(t, out, `stroke-dasharray="10,5" visibility="hidden" pointer-events="none"`)
	assert.Contains(t, out, `vector-effect="non-scaling-stroke"`)

	ghost.SetGeometry(geometry.Rect{X: 5.5, Y: 5, Width: 5, Height: 0.25})
	ghost.SetVisible(true)
	buf.Reset()
	require.NoError(t, s.WriteSVG(&buf))
	assert.Contains(t, buf.String(), `id="ghost_rect" x="5.5" y="5" width="5" height="0.25"`)
	assert.Contains(t, buf.String(), `stroke-dasharray="10,5" visibility="visible"`)
}
