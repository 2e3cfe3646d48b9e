package plan

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/cjeanneret/NadirGo/internal/logic/geometry"
)

// Direction is the traversal direction of one grid row.
type Direction int

const (
	Forward Direction = iota // increasing x
	Reverse                  // decreasing x
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// RowDirection returns the direction of row r (lawn-mower pattern):
// even rows go forward, odd rows go back.
func RowDirection(r int) Direction {
	if r%2 == 0 {
		return Forward
	}
	return Reverse
}

// Coordinate returns the x coordinate of column c for a row spanning
// [0, width] with the given spacing.
func (d Direction) Coordinate(c int, spacing, width float64) float64 {
	if d == Reverse {
		return width - float64(c)*spacing
	}
	return float64(c) * spacing
}

// GridPlan is a lawn-mower photo plan over the scanned rectangle.
type GridPlan struct {
	Columns int // images per row
	Rows    int // number of rows

	IdealSpacing  r2.Vec // spacing derived from overlap/sidelap (m)
	ActualSpacing r2.Vec // spacing landing exactly on the far edges (m)

	Speed     float64 // max capture speed (m/s)
	Waypoints []Waypoint
}

// MaxWaypoints bounds the number of images in one plan.
const MaxWaypoints = 1_000_000

// CheckGridSize reports an error naming the offending field when the plan
// for cam and spec would hold more than MaxWaypoints images.
func CheckGridSize(cam geometry.Camera, spec DatasetSpec) error {
	ideal := ImageSpacing(cam, spec)
	columns := lineCountF(spec.ScanDimensionX, ideal.X)
	if math.IsNaN(columns) || columns > MaxWaypoints {
		return fmt.Errorf("scan_dimension_x / spacing yields too many images (%g, max %d)", columns, MaxWaypoints)
	}
	rows := lineCountF(spec.ScanDimensionY, ideal.Y)
	if math.IsNaN(rows) || rows > MaxWaypoints {
		return fmt.Errorf("scan_dimension_y / spacing yields too many images (%g, max %d)", rows, MaxWaypoints)
	}
	if columns*rows > MaxWaypoints {
		return fmt.Errorf("scan_dimension_x x scan_dimension_y yields too many images (%g x %g, max %d)", columns, rows, MaxWaypoints)
	}
	return nil
}

// CalculateGridPlan builds the complete photo plan for a validated camera
// and dataset specification. Plans larger than MaxWaypoints are rejected.
func CalculateGridPlan(cam geometry.Camera, spec DatasetSpec, allowedMotionPx float64) (*GridPlan, error) {
	if err := CheckGridSize(cam, spec); err != nil {
		return nil, err
	}
	ideal := ImageSpacing(cam, spec)
	speed := MaxCaptureSpeed(cam, spec, allowedMotionPx)

	// A zero dimension needs a single line of photos on that axis
	columns := int(lineCountF(spec.ScanDimensionX, ideal.X))
	rows := int(lineCountF(spec.ScanDimensionY, ideal.Y))

	// Respace so that the last column/row lands on the far edge.
	// Ceil only makes the grid denser than the ideal spacing.
	actual := r2.Vec{
		X: lineSpacing(spec.ScanDimensionX, columns),
		Y: lineSpacing(spec.ScanDimensionY, rows),
	}

	waypoints := make([]Waypoint, 0, columns*rows)
	for r := 0; r < rows; r++ {
		y := float64(r) * actual.Y
		dir := RowDirection(r)
		for c := 0; c < columns; c++ {
			waypoints = append(waypoints, Waypoint{
				X:     dir.Coordinate(c, actual.X, spec.ScanDimensionX),
				Y:     y,
				Z:     spec.Height, // constant height
				Speed: speed,
			})
		}
	}

	return &GridPlan{
		Columns:       columns,
		Rows:          rows,
		IdealSpacing:  ideal,
		ActualSpacing: actual,
		Speed:         speed,
		Waypoints:     waypoints,
	}, nil
}

// GenerateGridPlan returns the waypoints of the lawn-mower plan, in flight
// order, with the default motion blur budget of one pixel.
func GenerateGridPlan(cam geometry.Camera, spec DatasetSpec) ([]Waypoint, error) {
	grid, err := CalculateGridPlan(cam, spec, DefaultAllowedMotionPx)
	if err != nil {
		return nil, err
	}
	return grid.Waypoints, nil
}

// Row returns the waypoints of row r in flight order.
func (g *GridPlan) Row(r int) []Waypoint {
	return g.Waypoints[r*g.Columns : (r+1)*g.Columns]
}

// Direction returns the traversal direction of row r.
func (g *GridPlan) Direction(r int) Direction {
	return RowDirection(r)
}

// lineCountF is kept in float64 so that huge or infinite ratios can be
// rejected before any int conversion.
func lineCountF(dimension, idealSpacing float64) float64 {
	if dimension == 0 {
		return 1
	}
	return math.Ceil(dimension/idealSpacing) + 1
}

func lineSpacing(dimension float64, lines int) float64 {
	if lines > 1 {
		return dimension / float64(lines-1)
	}
	return 0
}
