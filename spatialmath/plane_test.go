package spatialmath

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestPolar(t *testing.T) {
	for _, tc := range []struct {
		length, degrees float64
		expected        r2.Point
	}{
		{10, 0, r2.Point{X: 10}},
		{10, 90, r2.Point{Y: 10}},
		{2, -90, r2.Point{Y: -2}},
	} {
		p := Polar(tc.length, tc.degrees)
		test.That(t, p.X, test.ShouldAlmostEqual, tc.expected.X, 1e-9)
		test.That(t, p.Y, test.ShouldAlmostEqual, tc.expected.Y, 1e-9)
	}
	test.That(t, Polar(0, 123), test.ShouldResemble, r2.Point{X: 0, Y: 0})
}

func TestNewRectAndBounding(t *testing.T) {
	rect := NewRect(100, 20, 400, 55)
	test.That(t, rect.X.Lo, test.ShouldEqual, 100)
	test.That(t, rect.X.Hi, test.ShouldEqual, 500)
	test.That(t, rect.Y.Lo, test.ShouldEqual, 20)
	test.That(t, rect.Y.Hi, test.ShouldEqual, 75)

	bound := BoundingRect(r2.Point{X: 3, Y: -1}, r2.Point{X: -2, Y: 4}, r2.Point{X: 0, Y: 0})
	test.That(t, bound.Lo(), test.ShouldResemble, r2.Point{X: -2, Y: -1})
	test.That(t, bound.Hi(), test.ShouldResemble, r2.Point{X: 3, Y: 4})
}

func TestHorizontalIntercept(t *testing.T) {
	t.Run("sloped line", func(t *testing.T) {
		x, ok := HorizontalIntercept(r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 10}, 5)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, x, test.ShouldAlmostEqual, 5)

		// The line is infinite, so heights outside the segment still intercept.
		x, ok = HorizontalIntercept(r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: -5}, 10)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, x, test.ShouldAlmostEqual, -20)
	})

	t.Run("vertical line", func(t *testing.T) {
		x, ok := HorizontalIntercept(r2.Point{X: 7, Y: 0}, r2.Point{X: 7, Y: 30}, 100)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, x, test.ShouldEqual, 7)
	})

	t.Run("horizontal line", func(t *testing.T) {
		_, ok := HorizontalIntercept(r2.Point{X: 0, Y: 3}, r2.Point{X: 50, Y: 3}, 3)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("coincident points", func(t *testing.T) {
		x, ok := HorizontalIntercept(r2.Point{X: 4, Y: 4}, r2.Point{X: 4, Y: 4}, 0)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, x, test.ShouldEqual, 4)
	})
}

func TestScreenFrame(t *testing.T) {
	sf := ScreenFrame{Height: 500}
	p := r2.Point{X: 150, Y: 82.5}
	onScreen := sf.ToScreen(p)
	test.That(t, onScreen, test.ShouldResemble, r2.Point{X: 150, Y: 417.5})

	rect := sf.RectToScreen(NewRect(100, 20, 400, 55))
	test.That(t, rect.Lo(), test.ShouldResemble, r2.Point{X: 100, Y: 425})
	test.That(t, rect.Hi(), test.ShouldResemble, r2.Point{X: 500, Y: 480})
}
