package plan

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a ground position (m).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Summary holds aggregate figures of a photo plan.
type Summary struct {
	Waypoints   int           `json:"waypoints"`
	PathLengthM float64       `json:"path_length_m"` // XY distance along the flight order
	Min         Point         `json:"min"`           // bounding box corner
	Max         Point         `json:"max"`           // bounding box corner
	HeightM     float64       `json:"height_m"`
	SpeedMps    float64       `json:"speed_mps"`
	FlightTime  time.Duration `json:"flight_time_ns"` // path flown at capture speed
}

// Summarize computes the summary of a plan. An empty plan gives a zero Summary.
// Height and speed are read from the first waypoint.
func Summarize(waypoints []Waypoint) Summary {
	if len(waypoints) == 0 {
		return Summary{}
	}

	first := waypoints[0]
	s := Summary{
		Waypoints: len(waypoints),
		Min:       Point{X: first.X, Y: first.Y},
		Max:       Point{X: first.X, Y: first.Y},
		HeightM:   first.Z,
		SpeedMps:  first.Speed,
	}

	prev := r2.Vec{X: first.X, Y: first.Y}
	for _, wp := range waypoints[1:] {
		p := r2.Vec{X: wp.X, Y: wp.Y}
		s.PathLengthM += r2.Norm(r2.Sub(p, prev))
		s.Min = Point{X: math.Min(s.Min.X, p.X), Y: math.Min(s.Min.Y, p.Y)}
		s.Max = Point{X: math.Max(s.Max.X, p.X), Y: math.Max(s.Max.Y, p.Y)}
		prev = p
	}

	if s.SpeedMps > 0 && s.PathLengthM > 0 {
		s.FlightTime = time.Duration(s.PathLengthM / s.SpeedMps * float64(time.Second))
	}
	return s
}
