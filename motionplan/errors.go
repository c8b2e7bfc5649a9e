package motionplan

import "github.com/pkg/errors"

// ErrRescueOutOfDomain is returned by RescuePivot when no pivot angle can be solved for, because the
// telescope has no length or the arcsine argument leaves [-1, 1].
var ErrRescueOutOfDomain = errors.New("rescue pivot out of arcsine domain")

// NewRescueDomainError wraps ErrRescueOutOfDomain with the offending values.
func NewRescueDomainError(opposite, telescope float64) error {
	return errors.Wrapf(ErrRescueOutOfDomain, "opposite %.6g over telescope %.6g", opposite, telescope)
}
