package kinematics

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Dimensions are the fixed link measurements of the arm.
type Dimensions struct {
	// UmbrellaLength is the length of the wrist plate along the wrist vector.
	UmbrellaLength float64
	// UmbrellaHeight is the thickness of the wrist plate.
	UmbrellaHeight float64
	// WristOffsetLength is how far the plate sits from the wrist axel, perpendicular to the wrist vector.
	WristOffsetLength float64
	// PivotOrigin is the base of the telescope, fixed to the robot body.
	PivotOrigin r2.Point
}

// Bounds is the permitted operating volume. All arm points must stay strictly inside it.
type Bounds struct {
	BackWallX  float64 `json:"back_wall_x"`
	FrontWallX float64 `json:"front_wall_x"`
	FloorY     float64 `json:"floor_y"`
	RoofY      float64 `json:"roof_y"`
}

// Contains is true when p lies strictly between the walls and strictly between floor and roof.
func (b Bounds) Contains(p r2.Point) bool {
	return p.X > b.BackWallX && p.X < b.FrontWallX && p.Y > b.FloorY && p.Y < b.RoofY
}

// Rect returns the bounds as a rectangle.
func (b Bounds) Rect() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: b.BackWallX, Hi: b.FrontWallX},
		Y: r1.Interval{Lo: b.FloorY, Hi: b.RoofY},
	}
}
