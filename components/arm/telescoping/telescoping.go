// Package telescoping implements a simulated three axis arm with a rotating pivot, a rotating wrist
// and a telescoping segment between them. The arm only knows how to walk its current pose toward a
// target pose at bounded per-axis rates; deciding which targets are safe is done by the motion
// planner.
//
// An Arm is not safe for concurrent use. Callers that drive it from a goroutine must confine it there.
package telescoping

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/logging"
	"go.viam.com/stemsolvers/utils"
)

// ReachedTolerance is how close every axis must be to its target for the arm to count as arrived.
// The stepper snaps exactly onto the target, so this only absorbs representation noise in targets
// that were themselves computed.
const ReachedTolerance = utils.DefaultEpsilon

// Rates are the largest per tick changes of each axis. Angles are in degrees per tick and the
// telescope in length units per tick.
type Rates struct {
	Pivot     float64 `json:"pivot_deg_per_tick"`
	Wrist     float64 `json:"wrist_deg_per_tick"`
	Telescope float64 `json:"telescope_per_tick"`
}

// Get returns the rate of one axis.
func (r Rates) Get(axis kinematics.Axis) float64 {
	switch axis {
	case kinematics.PivotAxis:
		return r.Pivot
	case kinematics.WristAxis:
		return r.Wrist
	case kinematics.TelescopeAxis:
		return r.Telescope
	}
	panic(errors.Errorf("unknown axis %d", axis))
}

// Config is the static description of an arm. It does not change after the arm is built.
type Config struct {
	Dimensions      kinematics.Dimensions
	PermittedBounds kinematics.Bounds
	// DriveBase is the rectangle of the robot body the arm is mounted on, in the Y-up frame.
	DriveBase   r2.Rect
	Rates       Rates
	InitialPose kinematics.Pose
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (conf *Config) Validate() error {
	var err error
	dims := conf.Dimensions
	for name, v := range map[string]float64{
		"umbrella_length":     dims.UmbrellaLength,
		"umbrella_height":     dims.UmbrellaHeight,
		"wrist_offset_length": dims.WristOffsetLength,
	} {
		if !utils.IsFinite(v) || v < 0 {
			err = multierr.Append(err, errors.Errorf("%s must be a non-negative number, got %v", name, v))
		}
	}
	if !utils.IsFinite(dims.PivotOrigin.X) || !utils.IsFinite(dims.PivotOrigin.Y) {
		err = multierr.Append(err, errors.Errorf("pivot_origin must be finite, got %v", dims.PivotOrigin))
	}

	b := conf.PermittedBounds
	if !(b.BackWallX < b.FrontWallX) {
		err = multierr.Append(err, errors.Errorf("back wall (%v) must be left of front wall (%v)", b.BackWallX, b.FrontWallX))
	}
	if !(b.FloorY < b.RoofY) {
		err = multierr.Append(err, errors.Errorf("floor (%v) must be below roof (%v)", b.FloorY, b.RoofY))
	}
	if conf.DriveBase.IsEmpty() || conf.DriveBase.X.Length() == 0 || conf.DriveBase.Y.Length() == 0 {
		err = multierr.Append(err, errors.New("drive base must have a positive width and height"))
	}

	for _, axis := range kinematics.Axes {
		rate := conf.Rates.Get(axis)
		if !utils.IsFinite(rate) || rate <= 0 {
			err = multierr.Append(err, errors.Errorf("%s rate must be positive, got %v", axis, rate))
		}
		if !utils.IsFinite(conf.InitialPose.Get(axis)) {
			err = multierr.Append(err, errors.Errorf("initial %s must be finite", axis))
		}
	}
	return err
}

// Arm is the runtime model of one telescoping arm.
type Arm struct {
	conf   Config
	logger logging.Logger

	current kinematics.Pose
	target  kinematics.Pose
	moving  bool
}

// NewArm builds an arm resting at the configured initial pose.
func NewArm(conf Config, logger logging.Logger) (*Arm, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid arm config")
	}
	logger.Debugw("arm built", "initial_pose", conf.InitialPose.String(), "rates", conf.Rates)
	return &Arm{
		conf:    conf,
		logger:  logger,
		current: conf.InitialPose,
		target:  conf.InitialPose,
	}, nil
}

// MoveToState replaces the target pose. It never checks legality.
func (a *Arm) MoveToState(target kinematics.Pose) {
	a.target = target
}

// Update advances every axis of the current pose one tick toward the target.
func (a *Arm) Update() {
	next := a.current
	for _, axis := range kinematics.Axes {
		next = next.With(axis, StepToward(a.current.Get(axis), a.target.Get(axis), a.conf.Rates.Get(axis)))
	}
	a.current = next

	reached := a.HasReachedTarget()
	if a.moving && reached {
		a.logger.Debugw("arm reached target", "pose", a.current.String())
	}
	a.moving = !reached
}

// HasReachedTarget is true when every axis matches its target.
func (a *Arm) HasReachedTarget() bool {
	for _, axis := range kinematics.Axes {
		if !utils.Float64AlmostEqual(a.current.Get(axis), a.target.Get(axis), ReachedTolerance) {
			return false
		}
	}
	return true
}

// TicksToReach returns how many more calls to Update it takes to reach the current target, which
// is the slowest axis's count.
func (a *Arm) TicksToReach() int {
	ticks := 0
	for _, axis := range kinematics.Axes {
		diff := math.Abs(a.target.Get(axis) - a.current.Get(axis))
		if diff <= ReachedTolerance {
			continue
		}
		n := int(math.Ceil(diff/a.conf.Rates.Get(axis) - ReachedTolerance))
		if n < 1 {
			n = 1
		}
		if n > ticks {
			ticks = n
		}
	}
	return ticks
}

// CurrentPose returns the pose the arm is at.
func (a *Arm) CurrentPose() kinematics.Pose {
	return a.current
}

// TargetPose returns the pose the arm is heading to.
func (a *Arm) TargetPose() kinematics.Pose {
	return a.target
}

// Dimensions returns the link measurements.
func (a *Arm) Dimensions() kinematics.Dimensions {
	return a.conf.Dimensions
}

// DriveBase returns the body rectangle.
func (a *Arm) DriveBase() r2.Rect {
	return a.conf.DriveBase
}

// PermittedBounds returns the operating volume.
func (a *Arm) PermittedBounds() kinematics.Bounds {
	return a.conf.PermittedBounds
}

// Rates returns the per tick rate limits.
func (a *Arm) Rates() Rates {
	return a.conf.Rates
}

// MechanismPoints runs forward kinematics on the current pose.
func (a *Arm) MechanismPoints() kinematics.MechanismPoints {
	return kinematics.ComputeMechanismPoints(a.current, a.conf.Dimensions)
}

// StepToward moves current toward target by at most rate. When the remaining distance is within
// rate it returns target exactly, so it never overshoots.
func StepToward(current, target, rate float64) float64 {
	diff := target - current
	if math.Abs(diff) <= rate {
		return target
	}
	if diff > 0 {
		return current + rate
	}
	return current - rate
}
