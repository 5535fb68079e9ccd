package progress

import (
	"fmt"

	"production/internal/pkg/errs"
)

// Status is the state of one pallet on one route stage. The same scale is used
// for the per-part aggregate.
type Status int

const (
	Unknown Status = iota
	NotProcessed
	Pending
	InProgress
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:      "UNKNOWN",
		NotProcessed: "NOT_PROCESSED",
		Pending:      "PENDING",
		InProgress:   "IN_PROGRESS",
		Completed:    "COMPLETED",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid progress status", s))
	}
	return nil
}

// Started reports whether work on the stage has begun or finished.
func (s Status) Started() bool {
	return s == InProgress || s == Completed
}

// ParseStatus maps the persisted string form back to a Status.
func ParseStatus(str string) (Status, error) {
	for s, name := range getStatusStrings() {
		if s != Unknown && name == str {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid progress status", str))
}

func (s Status) markPending() (Status, error) {
	switch s {
	case NotProcessed, Pending, InProgress:
		return Pending, nil
	case Completed:
		return Unknown, errs.NewRuleViolationError(RuleAlreadyCompleted, "stage is already completed")
	default:
		return Unknown, s.Validate()
	}
}

func (s Status) start() (Status, error) {
	switch s {
	case NotProcessed, Pending:
		return InProgress, nil
	case InProgress:
		return Unknown, errs.NewRuleViolationError(RuleAlreadyInProgress, "stage is already in progress")
	case Completed:
		return Unknown, errs.NewRuleViolationError(RuleAlreadyCompleted, "stage is already completed")
	default:
		return Unknown, s.Validate()
	}
}

func (s Status) complete() (Status, error) {
	switch s {
	case InProgress:
		return Completed, nil
	case Completed:
		return Unknown, errs.NewRuleViolationError(RuleAlreadyCompleted, "stage is already completed")
	default:
		return Unknown, errs.NewRuleViolationError(RuleNotStarted,
			fmt.Sprintf("stage is %s, only IN_PROGRESS can be completed", s))
	}
}
