package motionplan

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/spatialmath"
)

var testDriveBase = spatialmath.NewRect(100, 20, 400, 55)

func TestConstraintHandler(t *testing.T) {
	var c constraintHandler
	test.That(t, c.CheckConstraints(kinematics.MechanismPoints{}), test.ShouldBeTrue)

	c.AddConstraint("b", func(kinematics.MechanismPoints) bool { return true })
	c.AddConstraint("a", func(kinematics.MechanismPoints) bool { return false })
	test.That(t, c.Constraints(), test.ShouldResemble, []string{"a", "b"})
	test.That(t, c.CheckConstraints(kinematics.MechanismPoints{}), test.ShouldBeFalse)
	test.That(t, c.failedConstraints(kinematics.MechanismPoints{}), test.ShouldResemble, []string{"a"})

	c.RemoveConstraint("a")
	test.That(t, c.Constraints(), test.ShouldResemble, []string{"b"})
	test.That(t, c.CheckConstraints(kinematics.MechanismPoints{}), test.ShouldBeTrue)
	test.That(t, c.failedConstraints(kinematics.MechanismPoints{}), test.ShouldBeEmpty)
}

func TestBoundsConstraint(t *testing.T) {
	bounds := kinematics.Bounds{BackWallX: 0, FrontWallX: 100, FloorY: 0, RoofY: 100}
	cons := NewBoundsConstraint(bounds)

	inside := r2.Point{X: 50, Y: 50}
	mp := kinematics.MechanismPoints{
		// The pivot base is not checked against bounds.
		PivotBase:           r2.Point{X: -10, Y: -10},
		WristAxel:           inside,
		UmbrellaBottomLeft:  inside,
		UmbrellaBottomRight: inside,
		UmbrellaTopLeft:     inside,
		UmbrellaTopRight:    inside,
	}
	test.That(t, cons(mp), test.ShouldBeTrue)

	onWall := mp
	onWall.UmbrellaTopLeft = r2.Point{X: 0, Y: 50}
	test.That(t, cons(onWall), test.ShouldBeFalse)

	onRoof := mp
	onRoof.UmbrellaTopRight = r2.Point{X: 50, Y: 100}
	test.That(t, cons(onRoof), test.ShouldBeFalse)

	belowFloor := mp
	belowFloor.WristAxel = r2.Point{X: 50, Y: -0.5}
	test.That(t, cons(belowFloor), test.ShouldBeFalse)
}

func TestDriveBaseConstraint(t *testing.T) {
	cons := NewDriveBaseConstraint(testDriveBase)

	t.Run("telescope through the base", func(t *testing.T) {
		mp := kinematics.ComputeMechanismPoints(kinematics.NewPose(-90, -90, 50), testDims())
		test.That(t, mp.WristAxel.Y, test.ShouldAlmostEqual, 32.5)
		test.That(t, cons(mp), test.ShouldBeFalse)

		intercepts := ComputeDriveBaseIntercepts(mp, testDriveBase)
		test.That(t, intercepts.Telescope.Crosses, test.ShouldBeTrue)
		test.That(t, intercepts.Telescope.Top.X, test.ShouldEqual, 150)
		test.That(t, intercepts.Telescope.Bottom.X, test.ShouldEqual, 150)
		test.That(t, intercepts.Telescope.Top.Y, test.ShouldEqual, 75)
		test.That(t, intercepts.Telescope.Bottom.Y, test.ShouldEqual, 20)
	})

	t.Run("horizontal wrist has no crossing", func(t *testing.T) {
		mp := kinematics.MechanismPoints{
			PivotBase:           r2.Point{X: 600, Y: 400},
			WristAxel:           r2.Point{X: 600, Y: 50},
			UmbrellaBottomRight: r2.Point{X: 650, Y: 50},
			UmbrellaTopRight:    r2.Point{X: 650, Y: 100},
		}
		intercepts := ComputeDriveBaseIntercepts(mp, testDriveBase)
		test.That(t, intercepts.Wrist.Crosses, test.ShouldBeFalse)
		test.That(t, intercepts.Wrist.Within(testDriveBase), test.ShouldBeFalse)
		test.That(t, intercepts.Telescope.Within(testDriveBase), test.ShouldBeFalse)
		test.That(t, cons(mp), test.ShouldBeTrue)
	})

	t.Run("sloped wrist crossing the bottom edge", func(t *testing.T) {
		mp := kinematics.MechanismPoints{
			PivotBase:           r2.Point{X: 600, Y: 400},
			WristAxel:           r2.Point{X: 600, Y: 50},
			UmbrellaBottomRight: r2.Point{X: 450, Y: 20},
			UmbrellaTopRight:    r2.Point{X: 450, Y: 70},
		}
		intercepts := ComputeDriveBaseIntercepts(mp, testDriveBase)
		test.That(t, intercepts.Wrist.Top.X, test.ShouldAlmostEqual, 725)
		test.That(t, intercepts.Wrist.Bottom.X, test.ShouldAlmostEqual, 450)
		test.That(t, cons(mp), test.ShouldBeFalse)

		// The same line is harmless when the plate's far end is above the base.
		mp.UmbrellaBottomRight = r2.Point{X: 750, Y: 80}
		mp.UmbrellaTopRight = r2.Point{X: 750, Y: 130}
		test.That(t, cons(mp), test.ShouldBeTrue)
	})

	t.Run("edges count as inside", func(t *testing.T) {
		li := LineIntercepts{Crosses: true, Top: r2.Point{X: 500, Y: 75}, Bottom: r2.Point{X: 900, Y: 20}}
		test.That(t, li.Within(testDriveBase), test.ShouldBeTrue)
		li.Top.X = 500.001
		test.That(t, li.Within(testDriveBase), test.ShouldBeFalse)
	})
}
