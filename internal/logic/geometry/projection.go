package geometry

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrPointOnFocalPlane is returned when projecting a point with Z = 0.
var ErrPointOnFocalPlane = errors.New("point lies on the camera focal plane (Z = 0)")

// ProjectPoint projects a point given in camera coordinates (Z along the
// optical axis) to pixel coordinates.
// u = fx × X/Z + cx, v = fy × Y/Z + cy
func ProjectPoint(c Camera, p r3.Vec) (r2.Vec, error) {
	if p.Z == 0 {
		return r2.Vec{}, ErrPointOnFocalPlane
	}
	return r2.Vec{
		X: c.Fx*(p.X/p.Z) + c.Cx,
		Y: c.Fy*(p.Y/p.Z) + c.Cy,
	}, nil
}
