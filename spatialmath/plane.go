package spatialmath

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"go.viam.com/stemsolvers/utils"
)

// lineEpsilon is how close to zero a segment's run or rise must be before the segment is
// treated as vertical or horizontal.
const lineEpsilon = 1e-6

// Polar returns the vector of the given length pointing at the given angle, measured
// counter-clockwise from +X in degrees.
func Polar(length, degrees float64) r2.Point {
	rad := utils.DegToRad(degrees)
	return r2.Point{X: length * math.Cos(rad), Y: length * math.Sin(rad)}
}

// NewRect returns the axis aligned rectangle whose lower-left corner is (x, y).
func NewRect(x, y, width, height float64) r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: x, Hi: x + width},
		Y: r1.Interval{Lo: y, Hi: y + height},
	}
}

// BoundingRect reduces a set of points to the smallest axis aligned rectangle containing them.
func BoundingRect(pts ...r2.Point) r2.Rect {
	return r2.RectFromPoints(pts...)
}

// HorizontalIntercept returns the X coordinate at which the infinite line through p1 and p2
// crosses the horizontal line at height y. A vertical line crosses at p1.X. A horizontal line
// has no single crossing and reports false.
func HorizontalIntercept(p1, p2 r2.Point, y float64) (float64, bool) {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	switch {
	case math.Abs(dx) < lineEpsilon:
		return p1.X, true
	case math.Abs(dy) < lineEpsilon:
		return 0, false
	}
	return p1.X + (y-p1.Y)*dx/dy, true
}
