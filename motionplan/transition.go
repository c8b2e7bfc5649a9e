package motionplan

import (
	"go.viam.com/stemsolvers/components/arm/telescoping"
	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/logging"
)

// Stats counts what a TransitionHandler has done since it was built.
type Stats struct {
	Accepted int
	Rejected int
	// Holds counts axes held in place, summed over ticks.
	Holds int
	// Rescues counts ticks whose pivot went to a solved angle.
	Rescues int
	// RescueFailures counts rescue solves that had no answer or whose answer was itself illegal.
	RescueFailures int
}

// TransitionHandler gates commanded poses and, on every tick, picks the intermediate pose the arm
// steps toward. Only whole poses that are legal are accepted as commands; each tick then moves every
// axis that can reach its commanded value on its own.
//
// A TransitionHandler is not safe for concurrent use.
type TransitionHandler struct {
	arm       *telescoping.Arm
	validator *Validator
	logger    logging.Logger

	commanded  kinematics.Pose
	lastPlan   Plan
	lastReport Report
	stats      Stats
}

// NewTransitionHandler returns a handler whose commanded pose is the arm's current pose.
func NewTransitionHandler(arm *telescoping.Arm, logger logging.Logger) *TransitionHandler {
	th := &TransitionHandler{
		arm:       arm,
		validator: NewValidatorForArm(arm),
		logger:    logger,
		commanded: arm.CurrentPose(),
	}
	th.lastReport = th.validator.Check(th.commanded)
	if !th.lastReport.Valid {
		logger.Warnw("arm starts in an illegal pose", "pose", th.commanded.String(), "failed", th.lastReport.Failed)
	}
	th.lastPlan = th.plan(arm.CurrentPose(), false)
	return th
}

// TransitionTo accepts the pose as the commanded target if it is legal. An illegal pose is dropped and
// the previous target kept. The return value reports whether the pose was accepted.
func (th *TransitionHandler) TransitionTo(pose kinematics.Pose) bool {
	report := th.validator.Check(pose)
	th.lastReport = report
	if !report.Valid {
		th.stats.Rejected++
		th.logger.Debugw("rejected commanded pose", "pose", pose.String(), "failed", report.Failed)
		return false
	}
	th.stats.Accepted++
	th.commanded = pose
	return true
}

// Update decides this tick's intermediate pose and hands it to the arm as its new target.
func (th *TransitionHandler) Update() {
	plan := th.plan(th.arm.CurrentPose(), true)
	th.lastPlan = plan
	th.arm.MoveToState(plan.Pose())
}

// plan probes each axis on its own: the current pose with just that axis moved to its commanded value.
// A legal probe adopts the commanded value and an illegal one holds. An illegal pivot probe tries the
// rescue solve before holding.
func (th *TransitionHandler) plan(current kinematics.Pose, record bool) Plan {
	decisions := make([]AxisDecision, 0, len(kinematics.Axes))
	for _, axis := range kinematics.Axes {
		probe := current.With(axis, th.commanded.Get(axis))
		decision := AxisDecision{Axis: axis, Kind: Adopt, Value: probe.Get(axis)}
		if !th.validator.IsValidState(probe) {
			decision = AxisDecision{Axis: axis, Kind: Hold, Value: current.Get(axis)}
			if axis == kinematics.PivotAxis {
				if rescued, ok := th.rescue(current, probe, record); ok {
					decision = AxisDecision{Axis: axis, Kind: Rescue, Value: rescued}
				}
			}
		}
		if record {
			switch decision.Kind {
			case Hold:
				th.stats.Holds++
			case Rescue:
				th.stats.Rescues++
			case Adopt:
			}
		}
		decisions = append(decisions, decision)
	}
	return Plan{Decisions: decisions}
}

// rescue solves for a replacement pivot and checks that it is legal on its own.
func (th *TransitionHandler) rescue(current, probe kinematics.Pose, record bool) (float64, bool) {
	rescued, err := RescuePivot(probe, th.validator.Dimensions(), th.validator.DriveBase())
	if err != nil {
		if record {
			th.stats.RescueFailures++
			th.logger.Debugw("no rescue pivot near boundary, holding", "probe", probe.String(), "error", err)
		}
		return 0, false
	}
	if !th.validator.IsValidState(current.With(kinematics.PivotAxis, rescued)) {
		if record {
			th.stats.RescueFailures++
			th.logger.Debugw("rescue pivot is illegal, holding", "probe", probe.String(), "rescued_pivot", rescued)
		}
		return 0, false
	}
	return rescued, true
}

// CommandedTarget returns the last accepted commanded pose.
func (th *TransitionHandler) CommandedTarget() kinematics.Pose {
	return th.commanded
}

// IsValidState reports whether the pose is legal for this handler's arm.
func (th *TransitionHandler) IsValidState(pose kinematics.Pose) bool {
	return th.validator.IsValidState(pose)
}

// Validator returns the validator the handler checks poses with.
func (th *TransitionHandler) Validator() *Validator {
	return th.validator
}

// LastPlan returns the decisions of the latest tick.
func (th *TransitionHandler) LastPlan() Plan {
	return th.lastPlan
}

// LastReport returns the validity report of the latest commanded pose.
func (th *TransitionHandler) LastReport() Report {
	return th.lastReport
}

// Stats returns the handler's counters.
func (th *TransitionHandler) Stats() Stats {
	return th.stats
}
