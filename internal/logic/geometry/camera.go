package geometry

import (
	"fmt"
	"math"
)

// Camera is an ideal pinhole camera (no distortion).
// Focal lengths and principal point are in pixels, the sensor size in mm.
//
// References:
//   - https://en.wikipedia.org/wiki/Pinhole_camera_model
//   - https://github.com/colmap/colmap (PINHOLE camera model)
type Camera struct {
	Name string `yaml:"name" json:"name,omitempty"` // e.g., "DJI Mavic 3E wide"

	Fx float64 `yaml:"fx" json:"fx"` // focal length along x (px)
	Fy float64 `yaml:"fy" json:"fy"` // focal length along y (px)
	Cx float64 `yaml:"cx" json:"cx"` // principal point x (px)
	Cy float64 `yaml:"cy" json:"cy"` // principal point y (px)

	SensorSizeXMm float64 `yaml:"sensor_size_x_mm" json:"sensor_size_x_mm"`
	SensorSizeYMm float64 `yaml:"sensor_size_y_mm" json:"sensor_size_y_mm"`

	ImageSizeX int `yaml:"image_size_x" json:"image_size_x"` // pixels along x
	ImageSizeY int `yaml:"image_size_y" json:"image_size_y"` // pixels along y
}

// Validate checks that the camera can be used by the geometry functions.
// The returned error names the first offending field.
func (c Camera) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"fx", c.Fx},
		{"fy", c.Fy},
		{"sensor_size_x_mm", c.SensorSizeXMm},
		{"sensor_size_y_mm", c.SensorSizeYMm},
	}
	for _, f := range positive {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return fmt.Errorf("%s must be > 0, got %g", f.name, f.v)
		}
	}
	if c.ImageSizeX <= 0 {
		return fmt.Errorf("image_size_x must be > 0, got %d", c.ImageSizeX)
	}
	if c.ImageSizeY <= 0 {
		return fmt.Errorf("image_size_y must be > 0, got %d", c.ImageSizeY)
	}
	if math.IsNaN(c.Cx) || math.IsInf(c.Cx, 0) {
		return fmt.Errorf("cx must be finite, got %g", c.Cx)
	}
	if math.IsNaN(c.Cy) || math.IsInf(c.Cy, 0) {
		return fmt.Errorf("cy must be finite, got %g", c.Cy)
	}
	return nil
}
