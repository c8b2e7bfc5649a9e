package motionplan

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/utils"
)

// RescuePivot solves for a pivot angle that lifts the wrist clear of the drive base when the commanded
// pivot is illegal. The probe is the illegal pose: commanded pivot with the current wrist and telescope.
//
// The wrist end point's vertical distance from the base's top edge is added to the height the telescope
// already gives at the commanded pivot, and the pivot is re-solved with an arcsine over the telescope
// length. When the telescope has no length or the ratio leaves [-1, 1] no angle exists and
// ErrRescueOutOfDomain is returned.
func RescuePivot(probe kinematics.Pose, dims kinematics.Dimensions, driveBase r2.Rect) (float64, error) {
	telescope := probe.Telescope
	end := kinematics.WristEndPoint(probe, dims)

	difference := math.Abs(end.Y - driveBase.Y.Hi)
	opposite := telescope*math.Sin(utils.DegToRad(probe.Pivot)) + difference

	if telescope == 0 || !utils.IsFinite(opposite) || !utils.IsFinite(telescope) {
		return 0, NewRescueDomainError(opposite, telescope)
	}
	ratio := opposite / telescope
	if math.Abs(ratio) > 1 {
		return 0, NewRescueDomainError(opposite, telescope)
	}
	return utils.RadToDeg(math.Asin(ratio)), nil
}
