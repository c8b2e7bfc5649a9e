// Package motionplan decides how a telescoping arm may move. It holds the validity predicate for arm
// poses and the per-tick transition handler that walks the arm toward a commanded pose one safe axis
// at a time.
package motionplan

import (
	"github.com/golang/geo/r2"

	"go.viam.com/stemsolvers/components/arm/telescoping"
	"go.viam.com/stemsolvers/kinematics"
)

// Validator tests poses against the arm's bounds and drive base. It holds no mutable state besides its
// constraint set, so IsValidState is pure.
type Validator struct {
	constraintHandler
	dims      kinematics.Dimensions
	bounds    kinematics.Bounds
	driveBase r2.Rect
}

// NewValidator returns a validator with the bounds and drive base constraints installed.
func NewValidator(dims kinematics.Dimensions, bounds kinematics.Bounds, driveBase r2.Rect) *Validator {
	v := &Validator{dims: dims, bounds: bounds, driveBase: driveBase}
	v.AddConstraint(BoundsConstraintName, NewBoundsConstraint(bounds))
	v.AddConstraint(DriveBaseConstraintName, NewDriveBaseConstraint(driveBase))
	return v
}

// NewValidatorForArm builds a validator from an arm's static configuration.
func NewValidatorForArm(arm *telescoping.Arm) *Validator {
	return NewValidator(arm.Dimensions(), arm.PermittedBounds(), arm.DriveBase())
}

// IsValidState returns whether the pose is geometrically legal.
func (v *Validator) IsValidState(pose kinematics.Pose) bool {
	return v.CheckConstraints(kinematics.ComputeMechanismPoints(pose, v.dims))
}

// Report describes the outcome of checking one pose.
type Report struct {
	Pose   kinematics.Pose
	Valid  bool
	Failed []string
	Points kinematics.MechanismPoints
}

// Check validates a pose and names every constraint it fails.
func (v *Validator) Check(pose kinematics.Pose) Report {
	mp := kinematics.ComputeMechanismPoints(pose, v.dims)
	failed := v.failedConstraints(mp)
	return Report{
		Pose:   pose,
		Valid:  len(failed) == 0,
		Failed: failed,
		Points: mp,
	}
}

// Intercepts returns where the pose's wrist and telescope lines cross the drive base edges.
func (v *Validator) Intercepts(pose kinematics.Pose) DriveBaseIntercepts {
	return ComputeDriveBaseIntercepts(kinematics.ComputeMechanismPoints(pose, v.dims), v.driveBase)
}

// Dimensions returns the link measurements the validator runs forward kinematics with.
func (v *Validator) Dimensions() kinematics.Dimensions {
	return v.dims
}

// DriveBase returns the drive base rectangle.
func (v *Validator) DriveBase() r2.Rect {
	return v.driveBase
}

// PermittedBounds returns the operating volume.
func (v *Validator) PermittedBounds() kinematics.Bounds {
	return v.bounds
}
