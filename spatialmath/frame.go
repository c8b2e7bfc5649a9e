package spatialmath

import "github.com/golang/geo/r2"

// ScreenFrame maps the Y-up frame used for all kinematics onto a Y-down raster of the
// given height. It is the only place the two conventions meet.
type ScreenFrame struct {
	Height float64
}

// ToScreen maps a Y-up point into raster coordinates.
func (sf ScreenFrame) ToScreen(p r2.Point) r2.Point {
	return r2.Point{X: p.X, Y: sf.Height - p.Y}
}

// RectToScreen maps a Y-up rectangle into raster coordinates. The result is still
// normalized, so its Lo corner is the top-left corner on screen.
func (sf ScreenFrame) RectToScreen(r r2.Rect) r2.Rect {
	return r2.RectFromPoints(sf.ToScreen(r.Lo()), sf.ToScreen(r.Hi()))
}
