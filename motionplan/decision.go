package motionplan

import (
	"fmt"
	"strings"

	"go.viam.com/stemsolvers/kinematics"
)

// DecisionKind is what the transition handler chose to do with one axis on one tick.
type DecisionKind int

const (
	// Adopt moves the axis to its commanded value.
	Adopt DecisionKind = iota
	// Hold keeps the axis where it is.
	Hold
	// Rescue moves the pivot to a solved angle that keeps the wrist clear of the drive base.
	Rescue
)

func (k DecisionKind) String() string {
	switch k {
	case Adopt:
		return "adopt"
	case Hold:
		return "hold"
	case Rescue:
		return "rescue"
	}
	return "unknown"
}

// AxisDecision is the outcome for one axis: the kind of decision and the value the axis is sent to.
type AxisDecision struct {
	Axis  kinematics.Axis
	Kind  DecisionKind
	Value float64
}

func (d AxisDecision) String() string {
	return fmt.Sprintf("%s:%s(%.2f)", d.Axis, d.Kind, d.Value)
}

// Plan is the set of decisions for one tick, one per axis in kinematics.Axes order.
type Plan struct {
	Decisions []AxisDecision
}

// Pose assembles the intermediate pose the plan sends the arm to.
func (p Plan) Pose() kinematics.Pose {
	var pose kinematics.Pose
	for _, d := range p.Decisions {
		pose = pose.With(d.Axis, d.Value)
	}
	return pose
}

// Decision returns the decision for one axis. The zero value is returned for an empty plan.
func (p Plan) Decision(axis kinematics.Axis) AxisDecision {
	for _, d := range p.Decisions {
		if d.Axis == axis {
			return d
		}
	}
	return AxisDecision{Axis: axis}
}

// Count returns how many axes got the given kind of decision.
func (p Plan) Count(kind DecisionKind) int {
	n := 0
	for _, d := range p.Decisions {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func (p Plan) String() string {
	parts := make([]string, 0, len(p.Decisions))
	for _, d := range p.Decisions {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, " ")
}
