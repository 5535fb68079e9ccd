package machine

import (
	"fmt"

	"production/internal/pkg/errs"
)

// StationMode selects how a station picks up work.
//
// Supervised stations only start pallets a supervisor has assigned to them, so
// the stage must be PENDING first. SelfService stations take pallets directly
// and pass their open assignment on to pallets split off during redistribution.
type StationMode int

const (
	UnknownMode StationMode = iota
	Supervised
	SelfService
)

func (m StationMode) String() string {
	switch m {
	case Supervised:
		return "SUPERVISED"
	case SelfService:
		return "SELF_SERVICE"
	default:
		return "UNKNOWN"
	}
}

func (m StationMode) Validate() error {
	if m != Supervised && m != SelfService {
		return errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("%d is not a valid station mode", m))
	}
	return nil
}

// ParseStationMode accepts SUPERVISED or SELF_SERVICE.
func ParseStationMode(str string) (StationMode, error) {
	switch str {
	case "SUPERVISED":
		return Supervised, nil
	case "SELF_SERVICE":
		return SelfService, nil
	default:
		return UnknownMode, errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("%q is not a valid station mode", str))
	}
}
