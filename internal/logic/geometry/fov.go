package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// FieldOfView computes the angular field of view of a camera
// from its focal length and sensor size.
type FieldOfView struct {
	sensor  r2.Vec // mm
	focalMm r2.Vec
}

// NewFieldOfView creates a field of view calculator.
// The camera must be valid (see Camera.Validate).
func NewFieldOfView(c Camera) *FieldOfView {
	return &FieldOfView{
		sensor:  r2.Vec{X: c.SensorSizeXMm, Y: c.SensorSizeYMm},
		focalMm: FocalLengthMm(c),
	}
}

// Horizontal calculates the horizontal field of view in degrees.
// Formula: FOV = 2 × arctan(sensor_x / (2 × focal_x))
func (f *FieldOfView) Horizontal() float64 {
	return 2.0 * math.Atan(f.sensor.X/(2.0*f.focalMm.X)) * 180.0 / math.Pi
}

// Vertical calculates the vertical field of view in degrees.
// Formula: FOV = 2 × arctan(sensor_y / (2 × focal_y))
func (f *FieldOfView) Vertical() float64 {
	return 2.0 * math.Atan(f.sensor.Y/(2.0*f.focalMm.Y)) * 180.0 / math.Pi
}
