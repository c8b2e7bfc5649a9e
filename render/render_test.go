package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/stemsolvers/control"
	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/motionplan"
	"go.viam.com/stemsolvers/spatialmath"
)

var (
	testBounds    = kinematics.Bounds{BackWallX: 20, FrontWallX: 780, FloorY: 0, RoofY: 480}
	testDriveBase = spatialmath.NewRect(100, 20, 400, 55)
	testDims      = kinematics.Dimensions{
		UmbrellaLength:    100,
		UmbrellaHeight:    50,
		WristOffsetLength: 10,
		PivotOrigin:       r2.Point{X: 150, Y: 82.5},
	}
)

func testSnapshot(tick int64, pose kinematics.Pose) control.Snapshot {
	return control.Snapshot{
		Tick:    tick,
		Current: pose,
		Target:  pose,
		Points:  kinematics.ComputeMechanismPoints(pose, testDims),
		Valid:   true,
	}
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestNewRendererValidation(t *testing.T) {
	_, err := NewRenderer(Options{Width: 0, Height: 10}, nil)
	test.That(t, err, test.ShouldNotBeNil)

	r, err := NewRenderer(Options{Width: 10, Height: 10}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r.opts.FontSize, test.ShouldEqual, 12)
}

func TestDrawFrame(t *testing.T) {
	val := motionplan.NewValidator(testDims, testBounds, testDriveBase)
	r, err := NewRenderer(Options{
		Width:     800,
		Height:    500,
		Bounds:    testBounds,
		DriveBase: testDriveBase,
		Overlay:   true,
	}, val)
	test.That(t, err, test.ShouldBeNil)

	img := r.DrawFrame(testSnapshot(1, kinematics.NewPose(0, 50, 400)))
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 800)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 500)

	// The drive base spans y 20..75 in the Y-up frame, which is rows 425..480 on screen.
	test.That(t, sameColor(img.At(300, 450), driveBaseColor), test.ShouldBeTrue)
	test.That(t, sameColor(img.At(300, 300), backgroundColor), test.ShouldBeTrue)
	test.That(t, sameColor(img.At(795, 5), backgroundColor), test.ShouldBeTrue)

	path := filepath.Join(t.TempDir(), "frame.png")
	test.That(t, SavePNG(img, path), test.ShouldBeNil)
	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	test.That(t, SavePNG(img, filepath.Join(t.TempDir(), "missing", "frame.png")), test.ShouldNotBeNil)
}

func TestUmbrellaFill(t *testing.T) {
	test.That(t, sameColor(umbrellaFill(motionplan.Plan{}), umbrellaColor), test.ShouldBeTrue)

	oneHeld := motionplan.Plan{Decisions: []motionplan.AxisDecision{
		{Axis: kinematics.PivotAxis, Kind: motionplan.Hold},
		{Axis: kinematics.WristAxis, Kind: motionplan.Adopt},
		{Axis: kinematics.TelescopeAxis, Kind: motionplan.Adopt},
	}}
	test.That(t, sameColor(umbrellaFill(oneHeld), umbrellaColor), test.ShouldBeFalse)
}

func TestTrajectoryPlot(t *testing.T) {
	var tr Trajectory
	_, err := tr.Plot()
	test.That(t, err, test.ShouldNotBeNil)

	for i := int64(1); i <= 10; i++ {
		tr.Observe(testSnapshot(i, kinematics.NewPose(float64(2*i), 50, 400)))
	}
	test.That(t, tr.Len(), test.ShouldEqual, 10)

	path := filepath.Join(t.TempDir(), "trajectory.png")
	test.That(t, tr.SavePlot(path), test.ShouldBeNil)
	_, err = os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
}
