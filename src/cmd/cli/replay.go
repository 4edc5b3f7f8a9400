package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"roi-overlay/src/geometry"
	"roi-overlay/src/overlay"
	"roi-overlay/src/pointer"
	"roi-overlay/src/scene"
	"roi-overlay/src/selection"
	"roi-overlay/src/session"
)

type replayOptions struct {
	scriptPath string
	jsonOutput bool
	svgPath    string
}

// script is a recorded interaction. Each step sets exactly one field.
// NoOverlay leaves the overlay element out of the scene.
type script struct {
	Canvas    canvasSpec `yaml:"canvas"`
	OverlayID string     `yaml:"overlay_id"`
	NoOverlay bool       `yaml:"no_overlay"`
	View      viewSpec   `yaml:"view"`
	Steps     []step     `yaml:"steps"`
}

type canvasSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type viewSpec struct {
	Origin [2]float64 `yaml:"origin"`
	Pan    [2]float64 `yaml:"pan"`
	Zoom   float64    `yaml:"zoom"`
}

type step struct {
	Start      *[2]float64 `yaml:"start"`
	StartLocal *[2]float64 `yaml:"start_local"`
	Move       *[2]float64 `yaml:"move"`
	Stop       bool        `yaml:"stop"`
	Pan        *[2]float64 `yaml:"pan"`
	Scroll     *[2]float64 `yaml:"scroll"`
	Zoom       *zoomStep   `yaml:"zoom"`
	Detach     bool        `yaml:"detach"`
	Attach     bool        `yaml:"attach"`
}

type zoomStep struct {
	Factor float64    `yaml:"factor"`
	At     [2]float64 `yaml:"at"`
}

// frame is the observable state after one step.
type frame struct {
	Step    int         `json:"step"`
	Op      string      `json:"op"`
	Active  bool        `json:"active"`
	Visible bool        `json:"visible"`
	Rect    *rectResult `json:"rect,omitempty"`
	Last    *rectResult `json:"last,omitempty"`
}

type rectResult struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func rectJSON(r geometry.Rect) rectResult {
	return rectResult{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func newReplayCmd() *cobra.Command {
	opts := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a YAML interaction script against an in-memory canvas",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, opts.scriptPath)
			if err != nil {
				return err
			}
			return runReplay(data, *opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "Path to YAML script (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output frames as JSON")
	cmd.Flags().StringVar(&opts.svgPath, "svg", "", "Write the final scene as SVG to this path")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func parseScript(data []byte) (*script, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
		s.Canvas.Width, s.Canvas.Height = 1000, 1000
	}
	if s.View.Zoom == 0 {
		s.View.Zoom = 1
	}
	if s.OverlayID == "" {
		s.OverlayID = overlay.DefaultID
	}
	for i, st := range s.Steps {
		if st.count() != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one action, got %d", i+1, st.count())
		}
	}
	return &s, nil
}

func (st step) count() int {
	n := 0
	for _, set := range []bool{
		st.Start != nil, st.StartLocal != nil, st.Move != nil, st.Stop,
		st.Pan != nil, st.Scroll != nil, st.Zoom != nil, st.Detach, st.Attach,
	} {
		if set {
			n++
		}
	}
	return n
}

// replayer owns the canvas and controller for one script run.
type replayer struct {
	scene *scene.Scene
	ctrl  *selection.Controller
	feed  *pointer.Feed
	ghost *scene.RectNode
}

func newReplayer(s *script) (*replayer, error) {
	sc := scene.New(s.Canvas.Width, s.Canvas.Height)
	sc.SetOrigin(geometry.Pt(s.View.Origin[0], s.View.Origin[1]))
	sc.SetPan(geometry.Pt(s.View.Pan[0], s.View.Pan[1]))
	sc.SetZoom(s.View.Zoom)

	r := &replayer{scene: sc, feed: pointer.NewFeed()}
	if !s.NoOverlay {
		r.ghost = scene.NewGhostRect(s.OverlayID)
		if err := sc.Add(r.ghost); err != nil {
			return nil, err
		}
	}
	r.ctrl = selection.New(session.New(), sc, overlay.NewSync(sc, s.OverlayID))
	r.ctrl.Subscribe(r.feed)
	return r, nil
}

func (r *replayer) apply(st step) string {
	switch {
	case st.Start != nil:
		r.ctrl.StartSelection(st.Start[0], st.Start[1])
		return fmt.Sprintf("start(%g,%g)", st.Start[0], st.Start[1])
	case st.StartLocal != nil:
		r.ctrl.StartSelectionLocal(st.StartLocal[0], st.StartLocal[1])
		return fmt.Sprintf("start_local(%g,%g)", st.StartLocal[0], st.StartLocal[1])
	case st.Move != nil:
		r.feed.Publish(pointer.Event{X: st.Move[0], Y: st.Move[1]})
		return fmt.Sprintf("move(%g,%g)", st.Move[0], st.Move[1])
	case st.Stop:
		r.ctrl.StopSelection()
		return "stop"
	case st.Pan != nil:
		r.scene.Pan(st.Pan[0], st.Pan[1])
		return fmt.Sprintf("pan(%g,%g)", st.Pan[0], st.Pan[1])
	case st.Scroll != nil:
		r.scene.ScrollTo(geometry.Pt(st.Scroll[0], st.Scroll[1]))
		return fmt.Sprintf("scroll(%g,%g)", st.Scroll[0], st.Scroll[1])
	case st.Zoom != nil:
		if err := r.scene.ZoomAt(st.Zoom.Factor, geometry.Pt(st.Zoom.At[0], st.Zoom.At[1])); err != nil {
			return fmt.Sprintf("zoom(%g) failed: %v", st.Zoom.Factor, err)
		}
		return fmt.Sprintf("zoom(%g)", st.Zoom.Factor)
	case st.Detach:
		r.scene.Detach()
		return "detach"
	case st.Attach:
		r.scene.Attach()
		return "attach"
	}
	return "noop"
}

func (r *replayer) frame(i int, op string) frame {
	f := frame{Step: i, Op: op, Active: r.ctrl.IsActive()}
	if r.ghost != nil {
		f.Visible = r.ghost.Visible
		rect := rectJSON(r.ghost.Rect)
		f.Rect = &rect
	}
	if last, ok := r.ctrl.Current(); ok {
		rect := rectJSON(last)
		f.Last = &rect
	}
	return f
}

func runReplay(data []byte, opts replayOptions, out io.Writer) error {
	s, err := parseScript(data)
	if err != nil {
		return err
	}
	r, err := newReplayer(s)
	if err != nil {
		return err
	}

	frames := make([]frame, 0, len(s.Steps))
	for i, st := range s.Steps {
		frames = append(frames, r.frame(i+1, r.apply(st)))
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(frames); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
	} else {
		for _, f := range frames {
			fmt.Fprintln(out, formatFrame(f))
		}
	}

	if opts.svgPath != "" {
		fh, err := os.Create(opts.svgPath)
		if err != nil {
			return err
		}
		if err := r.scene.WriteSVG(fh); err != nil {
			_ = fh.Close()
			return err
		}
		return fh.Close()
	}
	return nil
}

func formatFrame(f frame) string {
	line := fmt.Sprintf("%d %s active=%v", f.Step, f.Op, f.Active)
	if f.Rect != nil {
		line += fmt.Sprintf(" visible=%v rect=%g,%g %gx%g", f.Visible, f.Rect.X, f.Rect.Y, f.Rect.Width, f.Rect.Height)
	} else if f.Last != nil {
		line += fmt.Sprintf(" last=%g,%g %gx%g", f.Last.X, f.Last.Y, f.Last.Width, f.Last.Height)
	}
	return line
}
