package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const mmPerMeter = 1000.0

// FocalLengthMm converts the pixel focal lengths into millimeters
// using the pixel pitch (sensor size / pixel count) of each axis.
func FocalLengthMm(c Camera) r2.Vec {
	pixelToMmX := c.SensorSizeXMm / float64(c.ImageSizeX)
	pixelToMmY := c.SensorSizeYMm / float64(c.ImageSizeY)
	return r2.Vec{X: c.Fx * pixelToMmX, Y: c.Fy * pixelToMmY}
}

// ImageFootprint returns the ground area covered by one image taken
// distanceM meters above the surface, in meters.
//
// Sensor and ground footprint form similar triangles whose heights are
// the focal length and the distance:
//
//	sensor_mm / focal_mm = footprint_mm / distance_mm
func ImageFootprint(c Camera, distanceM float64) r2.Vec {
	distanceMm := distanceM * mmPerMeter
	focal := FocalLengthMm(c)

	footprintXMm := c.SensorSizeXMm * distanceMm / focal.X
	footprintYMm := c.SensorSizeYMm * distanceMm / focal.Y

	return r2.Vec{X: footprintXMm / mmPerMeter, Y: footprintYMm / mmPerMeter}
}

// GroundSamplingDistance returns the ground size of one pixel (m/px)
// at distanceM meters, using the smaller of the two focal lengths.
func GroundSamplingDistance(c Camera, distanceM float64) float64 {
	return distanceM / math.Min(c.Fx, c.Fy)
}
