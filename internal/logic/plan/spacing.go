package plan

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/cjeanneret/NadirGo/internal/logic/geometry"
)

// DefaultAllowedMotionPx is the motion blur budget used by GenerateGridPlan.
const DefaultAllowedMotionPx = 1.0

// ImageSpacing returns the largest center-to-center distance between
// images (m) that still gives the requested overlap (X) and sidelap (Y).
// If overlap = 70%, each image covers 30% new ground.
func ImageSpacing(cam geometry.Camera, spec DatasetSpec) r2.Vec {
	footprint := geometry.ImageFootprint(cam, spec.Height)
	return r2.Vec{
		X: footprint.X * (1 - spec.Overlap),
		Y: footprint.Y * (1 - spec.Sidelap),
	}
}

// MaxCaptureSpeed returns the highest drone speed (m/s) that keeps the
// motion during one exposure under allowedMotionPx pixels on the ground.
func MaxCaptureSpeed(cam geometry.Camera, spec DatasetSpec, allowedMotionPx float64) float64 {
	gsd := geometry.GroundSamplingDistance(cam, spec.Height)
	maxDistanceM := gsd * allowedMotionPx
	exposureS := spec.ExposureTimeMs / 1000.0
	return maxDistanceM / exposureS
}
