package motionplan

import (
	"sort"

	"github.com/golang/geo/r2"

	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/spatialmath"
)

const (
	// BoundsConstraintName names the check that every arm point lies inside the permitted bounds.
	BoundsConstraintName = "permitted_bounds"
	// DriveBaseConstraintName names the check that the arm does not pass through the drive base.
	DriveBaseConstraintName = "drive_base_clearance"
)

// Constraint returns true if the arm outline satisfies it.
type Constraint func(kinematics.MechanismPoints) bool

// constraintHandler is a convenient wrapper for named constraints. Including a constraint handler as an
// anonymous struct member allows reuse.
type constraintHandler struct {
	constraints map[string]Constraint
}

// AddConstraint will add or overwrite a constraint function with a given name. A constraint function should return true
// if the given outline satisfies the constraint.
func (c *constraintHandler) AddConstraint(name string, cons Constraint) {
	if c.constraints == nil {
		c.constraints = map[string]Constraint{}
	}
	c.constraints[name] = cons
}

// RemoveConstraint will remove the given constraint.
func (c *constraintHandler) RemoveConstraint(name string) {
	delete(c.constraints, name)
}

// Constraints will list all constraints by name, sorted.
func (c *constraintHandler) Constraints() []string {
	names := make([]string, 0, len(c.constraints))
	for name := range c.constraints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckConstraints will check a given outline against all constraints.
func (c *constraintHandler) CheckConstraints(mp kinematics.MechanismPoints) bool {
	for _, cFunc := range c.constraints {
		if !cFunc(mp) {
			return false
		}
	}
	return true
}

// failedConstraints returns the sorted names of every constraint the outline violates.
func (c *constraintHandler) failedConstraints(mp kinematics.MechanismPoints) []string {
	var failed []string
	for _, name := range c.Constraints() {
		if !c.constraints[name](mp) {
			failed = append(failed, name)
		}
	}
	return failed
}

// NewBoundsConstraint returns a constraint that the wrist axel and all four plate corners lie strictly
// inside the bounds.
func NewBoundsConstraint(bounds kinematics.Bounds) Constraint {
	return func(mp kinematics.MechanismPoints) bool {
		for _, p := range mp.Checked() {
			if !bounds.Contains(p) {
				return false
			}
		}
		return true
	}
}

// NewDriveBaseConstraint returns a constraint that the wrist and telescope do not reach down through the
// drive base.
//
// Each line is extended infinitely and intersected with the horizontal lines through the base's top and
// bottom edges. A line is in the way when either crossing lands within the base's width while the part of
// the arm it carries hangs at or below the top edge: the far end of the plate for the wrist line, and the
// wrist axel for the telescope line.
func NewDriveBaseConstraint(driveBase r2.Rect) Constraint {
	return func(mp kinematics.MechanismPoints) bool {
		top := driveBase.Y.Hi
		intercepts := ComputeDriveBaseIntercepts(mp, driveBase)

		wristLow := mp.UmbrellaBottomRight.Y <= top || mp.UmbrellaTopRight.Y <= top
		if wristLow && intercepts.Wrist.Within(driveBase) {
			return false
		}
		if mp.WristAxel.Y <= top && intercepts.Telescope.Within(driveBase) {
			return false
		}
		return true
	}
}

// LineIntercepts is where one arm line crosses the drive base's top and bottom edge lines.
type LineIntercepts struct {
	// Crosses is false for a horizontal line, which has no single crossing.
	Crosses bool
	Top     r2.Point
	Bottom  r2.Point
}

// Within is true when either crossing lies within the horizontal extent of the base, edges included.
func (li LineIntercepts) Within(driveBase r2.Rect) bool {
	return li.Crosses && (driveBase.X.Contains(li.Top.X) || driveBase.X.Contains(li.Bottom.X))
}

// DriveBaseIntercepts holds the intercepts of both arm lines.
type DriveBaseIntercepts struct {
	// Wrist runs from the wrist axel through the bottom right plate corner.
	Wrist LineIntercepts
	// Telescope runs from the pivot base through the wrist axel.
	Telescope LineIntercepts
}

// ComputeDriveBaseIntercepts intersects the arm's wrist and telescope lines with the drive base edges.
func ComputeDriveBaseIntercepts(mp kinematics.MechanismPoints, driveBase r2.Rect) DriveBaseIntercepts {
	return DriveBaseIntercepts{
		Wrist:     lineIntercepts(mp.WristAxel, mp.UmbrellaBottomRight, driveBase),
		Telescope: lineIntercepts(mp.PivotBase, mp.WristAxel, driveBase),
	}
}

func lineIntercepts(p1, p2 r2.Point, driveBase r2.Rect) LineIntercepts {
	top, bottom := driveBase.Y.Hi, driveBase.Y.Lo
	topX, ok := spatialmath.HorizontalIntercept(p1, p2, top)
	if !ok {
		return LineIntercepts{}
	}
	bottomX, _ := spatialmath.HorizontalIntercept(p1, p2, bottom)
	return LineIntercepts{
		Crosses: true,
		Top:     r2.Point{X: topX, Y: top},
		Bottom:  r2.Point{X: bottomX, Y: bottom},
	}
}
