package plan

import (
	"fmt"
	"math"
)

// DatasetSpec describes the image dataset requested by the user.
type DatasetSpec struct {
	Overlap        float64 `yaml:"overlap" json:"overlap"`                   // ratio [0,1) shared by consecutive images
	Sidelap        float64 `yaml:"sidelap" json:"sidelap"`                   // ratio [0,1) shared by images in adjacent rows
	Height         float64 `yaml:"height" json:"height"`                     // above the ground (m)
	ScanDimensionX float64 `yaml:"scan_dimension_x" json:"scan_dimension_x"` // width of the scanned rectangle (m)
	ScanDimensionY float64 `yaml:"scan_dimension_y" json:"scan_dimension_y"` // height of the scanned rectangle (m)
	ExposureTimeMs float64 `yaml:"exposure_time_ms" json:"exposure_time_ms"` // per image (ms)
}

// Validate checks the dataset specification.
// The returned error names the first violated field.
func (s DatasetSpec) Validate() error {
	if !isFinite(s.Overlap) || s.Overlap < 0 || s.Overlap >= 1 {
		return fmt.Errorf("overlap must be in [0,1), got %g", s.Overlap)
	}
	if !isFinite(s.Sidelap) || s.Sidelap < 0 || s.Sidelap >= 1 {
		return fmt.Errorf("sidelap must be in [0,1), got %g", s.Sidelap)
	}
	if !isFinite(s.Height) || s.Height <= 0 {
		return fmt.Errorf("height must be > 0, got %g", s.Height)
	}
	if !isFinite(s.ScanDimensionX) || s.ScanDimensionX < 0 {
		return fmt.Errorf("scan_dimension_x must be >= 0, got %g", s.ScanDimensionX)
	}
	if !isFinite(s.ScanDimensionY) || s.ScanDimensionY < 0 {
		return fmt.Errorf("scan_dimension_y must be >= 0, got %g", s.ScanDimensionY)
	}
	if !isFinite(s.ExposureTimeMs) || s.ExposureTimeMs <= 0 {
		return fmt.Errorf("exposure_time_ms must be > 0, got %g", s.ExposureTimeMs)
	}
	return nil
}

func (s DatasetSpec) String() string {
	return fmt.Sprintf("Overlap %g, Sidelap %g, Height %g, Scan dimension X %g, Scan dimension Y %g, Exposure Time %g",
		s.Overlap, s.Sidelap, s.Height, s.ScanDimensionX, s.ScanDimensionY, s.ExposureTimeMs)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
