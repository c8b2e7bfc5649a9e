package kinematics

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/stemsolvers/spatialmath"
)

const eps = 1e-9

func unitDims() Dimensions {
	return Dimensions{
		UmbrellaLength:    100,
		UmbrellaHeight:    50,
		WristOffsetLength: 10,
		PivotOrigin:       r2.Point{},
	}
}

func assertPoint(t *testing.T, actual, expected r2.Point) {
	t.Helper()
	test.That(t, actual.X, test.ShouldAlmostEqual, expected.X, eps)
	test.That(t, actual.Y, test.ShouldAlmostEqual, expected.Y, eps)
}

func TestComputeMechanismPointsStraight(t *testing.T) {
	mp := ComputeMechanismPoints(NewPose(0, 0, 100), unitDims())

	assertPoint(t, mp.PivotBase, r2.Point{})
	assertPoint(t, mp.WristAxel, r2.Point{X: 100})
	assertPoint(t, mp.UmbrellaBottomLeft, r2.Point{X: 100, Y: 10})
	assertPoint(t, mp.UmbrellaBottomRight, r2.Point{X: 200, Y: 10})
	assertPoint(t, mp.UmbrellaTopLeft, r2.Point{X: 100, Y: 60})
	assertPoint(t, mp.UmbrellaTopRight, r2.Point{X: 200, Y: 60})
}

func TestComputeMechanismPointsWristIsRelative(t *testing.T) {
	// Pivot straight up with the wrist folded 90 degrees clockwise leaves the wrist vector
	// pointing along +X, exactly like the straight pose above.
	dims := unitDims()
	dims.PivotOrigin = r2.Point{X: 5, Y: 5}
	mp := ComputeMechanismPoints(NewPose(90, 90, 50), dims)

	assertPoint(t, mp.WristAxel, r2.Point{X: 5, Y: 55})
	assertPoint(t, mp.UmbrellaBottomLeft, r2.Point{X: 5, Y: 65})
	assertPoint(t, mp.UmbrellaBottomRight, r2.Point{X: 105, Y: 65})
	assertPoint(t, mp.UmbrellaTopRight, r2.Point{X: 105, Y: 115})

	// Wrist bent back by -90 relative to a horizontal telescope points the plate straight up.
	mp = ComputeMechanismPoints(NewPose(0, -90, 100), unitDims())
	assertPoint(t, mp.UmbrellaBottomLeft, r2.Point{X: 90, Y: 0})
	assertPoint(t, mp.UmbrellaBottomRight, r2.Point{X: 90, Y: 100})
	assertPoint(t, mp.UmbrellaTopLeft, r2.Point{X: 40, Y: 0})
}

func TestComputeMechanismPointsDeterministic(t *testing.T) {
	dims := unitDims()
	dims.PivotOrigin = r2.Point{X: 150, Y: 82.5}
	pose := NewPose(33.3, -71.25, 287.5)

	first := ComputeMechanismPoints(pose, dims)
	second := ComputeMechanismPoints(pose, dims)
	test.That(t, second, test.ShouldResemble, first)
}

func TestComputeMechanismPointsZeroTelescope(t *testing.T) {
	dims := unitDims()
	dims.PivotOrigin = r2.Point{X: 1, Y: 2}
	mp := ComputeMechanismPoints(NewPose(45, 10, 0), dims)
	test.That(t, mp.WristAxel, test.ShouldResemble, mp.PivotBase)

	zero := ComputeMechanismPoints(NewPose(45, 10, 0), Dimensions{PivotOrigin: dims.PivotOrigin})
	for _, p := range zero.Checked() {
		assertPoint(t, p, dims.PivotOrigin)
	}
}

func TestWristEndPoint(t *testing.T) {
	end := WristEndPoint(NewPose(0, 0, 100), unitDims())
	assertPoint(t, end, r2.Point{X: 200})
}

func TestUmbrellaRectAndChecked(t *testing.T) {
	mp := ComputeMechanismPoints(NewPose(0, 0, 100), unitDims())
	rect := mp.UmbrellaRect()
	assertPoint(t, rect.Lo(), r2.Point{X: 100, Y: 10})
	assertPoint(t, rect.Hi(), r2.Point{X: 200, Y: 60})

	checked := mp.Checked()
	test.That(t, len(checked), test.ShouldEqual, 5)
	test.That(t, checked[0], test.ShouldResemble, mp.WristAxel)
}

func TestMechanismToScreen(t *testing.T) {
	mp := ComputeMechanismPoints(NewPose(0, 0, 100), unitDims())
	onScreen := mp.ToScreen(spatialmath.ScreenFrame{Height: 500})
	assertPoint(t, onScreen.WristAxel, r2.Point{X: 100, Y: 500})
	assertPoint(t, onScreen.UmbrellaTopRight, r2.Point{X: 200, Y: 440})
}

func TestBounds(t *testing.T) {
	b := Bounds{BackWallX: 0, FrontWallX: 10, FloorY: 0, RoofY: 10}
	test.That(t, b.Contains(r2.Point{X: 5, Y: 5}), test.ShouldBeTrue)
	test.That(t, b.Contains(r2.Point{X: 0, Y: 5}), test.ShouldBeFalse)
	test.That(t, b.Contains(r2.Point{X: 5, Y: 10}), test.ShouldBeFalse)
	test.That(t, b.Contains(r2.Point{X: 11, Y: 5}), test.ShouldBeFalse)
	test.That(t, b.Rect().Hi(), test.ShouldResemble, r2.Point{X: 10, Y: 10})
}
