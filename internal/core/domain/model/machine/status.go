package machine

import (
	"fmt"

	"production/internal/pkg/errs"
)

// Status is the operational status from the machine registry.
type Status int

const (
	Unknown Status = iota
	Active
	Inactive
	Maintenance
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "UNKNOWN",
		Active:      "ACTIVE",
		Inactive:    "INACTIVE",
		Maintenance: "MAINTENANCE",
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
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid machine status", s))
	}
	return nil
}

func ParseStatus(str string) (Status, error) {
	for s, name := range getStatusStrings() {
		if s != Unknown && name == str {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid machine status", str))
}
