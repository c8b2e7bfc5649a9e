// Package kinematics holds the pose type of the telescoping arm and the forward kinematics that
// turn a pose into the arm's outline.
package kinematics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/stemsolvers/utils"
)

// Axis names one controllable degree of freedom of the arm.
type Axis int

const (
	// PivotAxis is the base rotational joint, in degrees.
	PivotAxis Axis = iota
	// WristAxis is the rotational joint at the telescope tip, in degrees relative to the telescope.
	WristAxis
	// TelescopeAxis is the prismatic extension, in length units.
	TelescopeAxis
)

// Axes lists every axis in evaluation order.
var Axes = []Axis{PivotAxis, WristAxis, TelescopeAxis}

func (a Axis) String() string {
	switch a {
	case PivotAxis:
		return "pivot"
	case WristAxis:
		return "wrist"
	case TelescopeAxis:
		return "telescope"
	}
	return "unknown"
}

// Pose is one configuration of the arm. It is a plain value: copy it freely and compare it
// with ==. Angles are not normalized.
type Pose struct {
	Pivot     float64 `json:"pivot"`
	Wrist     float64 `json:"wrist"`
	Telescope float64 `json:"telescope"`
}

// NewPose is a convenience constructor in pivot, wrist, telescope order.
func NewPose(pivot, wrist, telescope float64) Pose {
	return Pose{Pivot: pivot, Wrist: wrist, Telescope: telescope}
}

// Get returns the value of one axis.
func (p Pose) Get(axis Axis) float64 {
	switch axis {
	case PivotAxis:
		return p.Pivot
	case WristAxis:
		return p.Wrist
	case TelescopeAxis:
		return p.Telescope
	}
	panic(errors.Errorf("unknown axis %d", axis))
}

// With returns a copy of the pose with one axis replaced.
func (p Pose) With(axis Axis, value float64) Pose {
	switch axis {
	case PivotAxis:
		p.Pivot = value
	case WristAxis:
		p.Wrist = value
	case TelescopeAxis:
		p.Telescope = value
	default:
		panic(errors.Errorf("unknown axis %d", axis))
	}
	return p
}

// Normalized returns the pose with both angles mapped into [0, 360). For display only.
func (p Pose) Normalized() Pose {
	return Pose{Pivot: utils.ModAngDeg(p.Pivot), Wrist: utils.ModAngDeg(p.Wrist), Telescope: p.Telescope}
}

func (p Pose) String() string {
	return fmt.Sprintf("pivot:%.2f° wrist:%.2f° telescope:%.2f", p.Pivot, p.Wrist, p.Telescope)
}

// ParsePose reads a pose written as "pivot,wrist,telescope".
func ParsePose(s string) (Pose, error) {
	parts := strings.Split(s, ",")
	if len(parts) != len(Axes) {
		return Pose{}, errors.Errorf("pose %q must have %d comma separated values", s, len(Axes))
	}
	var pose Pose
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Pose{}, errors.Wrapf(err, "bad %s value in pose %q", Axes[i], s)
		}
		if !utils.IsFinite(v) {
			return Pose{}, errors.Errorf("%s value in pose %q is not finite", Axes[i], s)
		}
		pose = pose.With(Axes[i], v)
	}
	return pose, nil
}
