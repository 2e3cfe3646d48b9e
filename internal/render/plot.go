package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cjeanneret/NadirGo/internal/logic/plan"
)

// ErrEmptyPlan is returned when there is no waypoint to draw.
var ErrEmptyPlan = errors.New("photo plan has no waypoints")

// Default output size. The canvas is square so that equal axis spans
// keep the scan's aspect ratio.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 8 * vg.Inch
)

var (
	pathColor   = color.RGBA{R: 135, G: 206, B: 250, A: 255} // light sky blue
	markerColor = color.RGBA{R: 147, G: 112, B: 219, A: 255} // medium purple
	startColor  = color.RGBA{R: 46, G: 139, B: 87, A: 255}   // sea green
)

// PhotoPlan builds a 2D plot of the flight path.
// Height and capture speed are constant over a plan and read from the
// first waypoint.
func PhotoPlan(waypoints []plan.Waypoint) (*plot.Plot, error) {
	if len(waypoints) == 0 {
		return nil, ErrEmptyPlan
	}

	pts := make(plotter.XYs, len(waypoints))
	for i, wp := range waypoints {
		pts[i] = plotter.XY{X: wp.X, Y: wp.Y}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Drone Flight Plan\nHeight (Z): %.2fm | Capture Speed: %.2f m/s",
		waypoints[0].Z, waypoints[0].Speed)
	p.X.Label.Text = "X-coordinate (m)"
	p.Y.Label.Text = "Y-coordinate (m)"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("flight path: %w", err)
	}
	line.Color = pathColor
	line.Width = vg.Points(2)
	points.GlyphStyle.Color = markerColor
	points.GlyphStyle.Shape = arrowGlyph{}
	points.GlyphStyle.Radius = vg.Points(4)
	dirs := headings(pts)
	points.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		sty := points.GlyphStyle
		sty.Shape = arrowGlyph{heading: dirs[i]}
		return sty
	}

	start, err := plotter.NewScatter(pts[:1])
	if err != nil {
		return nil, fmt.Errorf("start marker: %w", err)
	}
	start.GlyphStyle.Color = startColor
	start.GlyphStyle.Shape = draw.RingGlyph{}
	start.GlyphStyle.Radius = vg.Points(7)

	p.Add(line, points, start)
	p.Legend.Add("Flight Path", line, points)
	p.Legend.Add("Start", start)
	p.Legend.Top = true
	equalAspect(p, pts)

	return p, nil
}

// arrowGlyph is a filled triangle pointing along heading (radians,
// counter-clockwise from +X).
type arrowGlyph struct {
	heading float64
}

func (g arrowGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := float64(sty.Radius)
	sin, cos := math.Sincos(g.heading)
	at := func(dx, dy float64) vg.Point {
		return vg.Point{
			X: pt.X + vg.Length(dx*cos-dy*sin),
			Y: pt.Y + vg.Length(dx*sin+dy*cos),
		}
	}
	c.FillPolygon(sty.Color, []vg.Point{at(r, 0), at(-r, 0.7*r), at(-r, -0.7*r)})
}

// headings returns the flight direction at each point: towards the next
// point, or from the previous one for the last point.
func headings(pts plotter.XYs) []float64 {
	dirs := make([]float64, len(pts))
	for i := range pts {
		switch {
		case i+1 < len(pts):
			dirs[i] = math.Atan2(pts[i+1].Y-pts[i].Y, pts[i+1].X-pts[i].X)
		case i > 0:
			dirs[i] = dirs[i-1]
		}
	}
	return dirs
}

// equalAspect gives both axes the same span, centred on the data, so that
// one meter has the same length on X and Y of a square canvas.
func equalAspect(p *plot.Plot, pts plotter.XYs) {
	xmin, xmax, ymin, ymax := plotter.XYRange(pts)
	span := math.Max(xmax-xmin, ymax-ymin)
	if span == 0 {
		span = 1
	}
	half := span/2 + 0.05*span
	cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
}

// Write renders the plan in the given format ("png" or "svg") to w.
func Write(w io.Writer, waypoints []plan.Waypoint, format string, width, height vg.Length) error {
	format = strings.ToLower(format)
	if format != "png" && format != "svg" {
		return fmt.Errorf("unsupported plot format: %q", format)
	}
	p, err := PhotoPlan(waypoints)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// Save renders the plan to a file; the format is taken from the extension.
func Save(path string, waypoints []plan.Waypoint) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext != "png" && ext != "svg" {
		return fmt.Errorf("unsupported plot file extension: %q", filepath.Ext(path))
	}
	p, err := PhotoPlan(waypoints)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// ContentType returns the MIME type for a supported plot format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
