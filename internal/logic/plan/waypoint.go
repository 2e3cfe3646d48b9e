package plan

// Waypoint is a position where the drone flies to and captures a photo.
// For nadir scans it is the camera position in the world frame.
type Waypoint struct {
	X     float64 `json:"x"`     // m
	Y     float64 `json:"y"`     // m
	Z     float64 `json:"z"`     // height (m)
	Speed float64 `json:"speed"` // max speed during capture (m/s)
}
