package buffer

import (
	"fmt"

	"production/internal/pkg/errs"
)

// Status is the derived occupancy status of a cell.
type Status int

const (
	Unknown Status = iota
	Available
	Occupied
	Reserved
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Available: "AVAILABLE",
		Occupied:  "OCCUPIED",
		Reserved:  "RESERVED",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func ParseStatus(str string) (Status, error) {
	for s, name := range getStatusStrings() {
		if s != Unknown && name == str {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid cell status", str))
}
