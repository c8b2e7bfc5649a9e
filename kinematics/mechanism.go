package kinematics

import (
	"github.com/golang/geo/r2"

	"go.viam.com/stemsolvers/spatialmath"
)

// MechanismPoints is the outline of the arm for one pose. All points are in the Y-up frame.
type MechanismPoints struct {
	PivotBase           r2.Point
	WristAxel           r2.Point
	UmbrellaBottomLeft  r2.Point
	UmbrellaBottomRight r2.Point
	UmbrellaTopLeft     r2.Point
	UmbrellaTopRight    r2.Point
}

// ComputeMechanismPoints runs forward kinematics for a pose.
//
// The telescope leaves PivotOrigin at the pivot angle. The wrist angle is measured clockwise from
// the telescope, so the wrist vector points at (pivot - wrist) in the world. The plate hangs off
// the counter-clockwise side of the wrist vector: its near edge is WristOffsetLength away from the
// wrist vector and its far edge a further UmbrellaHeight.
func ComputeMechanismPoints(pose Pose, dims Dimensions) MechanismPoints {
	wristAxel := dims.PivotOrigin.Add(spatialmath.Polar(pose.Telescope, pose.Pivot))

	wristHeading := pose.Pivot - pose.Wrist
	wristVector := spatialmath.Polar(dims.UmbrellaLength, wristHeading)
	offsetVector := spatialmath.Polar(dims.WristOffsetLength, wristHeading+90)
	heightVector := spatialmath.Polar(dims.UmbrellaHeight, wristHeading+90)

	bottomLeft := wristAxel.Add(offsetVector)
	bottomRight := bottomLeft.Add(wristVector)

	return MechanismPoints{
		PivotBase:           dims.PivotOrigin,
		WristAxel:           wristAxel,
		UmbrellaBottomLeft:  bottomLeft,
		UmbrellaBottomRight: bottomRight,
		UmbrellaTopLeft:     bottomLeft.Add(heightVector),
		UmbrellaTopRight:    bottomRight.Add(heightVector),
	}
}

// WristEndPoint is the tip of the bare wrist vector, ignoring the plate offset.
func WristEndPoint(pose Pose, dims Dimensions) r2.Point {
	wristAxel := dims.PivotOrigin.Add(spatialmath.Polar(pose.Telescope, pose.Pivot))
	return wristAxel.Add(spatialmath.Polar(dims.UmbrellaLength, pose.Pivot-pose.Wrist))
}

// UmbrellaCorners returns the four plate corners.
func (mp MechanismPoints) UmbrellaCorners() []r2.Point {
	return []r2.Point{mp.UmbrellaBottomLeft, mp.UmbrellaBottomRight, mp.UmbrellaTopRight, mp.UmbrellaTopLeft}
}

// Checked returns the points that must stay within the permitted bounds: the wrist axel and the
// four plate corners.
func (mp MechanismPoints) Checked() []r2.Point {
	return append([]r2.Point{mp.WristAxel}, mp.UmbrellaCorners()...)
}

// UmbrellaRect is the axis aligned bounding rectangle of the plate, for coarse checks.
func (mp MechanismPoints) UmbrellaRect() r2.Rect {
	return spatialmath.BoundingRect(mp.UmbrellaCorners()...)
}

// ToScreen converts every point into the given raster frame.
func (mp MechanismPoints) ToScreen(sf spatialmath.ScreenFrame) MechanismPoints {
	return MechanismPoints{
		PivotBase:           sf.ToScreen(mp.PivotBase),
		WristAxel:           sf.ToScreen(mp.WristAxel),
		UmbrellaBottomLeft:  sf.ToScreen(mp.UmbrellaBottomLeft),
		UmbrellaBottomRight: sf.ToScreen(mp.UmbrellaBottomRight),
		UmbrellaTopLeft:     sf.ToScreen(mp.UmbrellaTopLeft),
		UmbrellaTopRight:    sf.ToScreen(mp.UmbrellaTopRight),
	}
}
