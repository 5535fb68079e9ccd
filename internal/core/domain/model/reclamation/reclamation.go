package reclamation

import (
	"errors"
	"fmt"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

type Status int

const (
	Unknown Status = iota
	Registered
	Confirmed
	Rejected
)

func (s Status) String() string {
	switch s {
	case Registered:
		return "REGISTERED"
	case Confirmed:
		return "CONFIRMED"
	case Rejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) Validate() error {
	if s < Registered || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid reclamation status", s))
	}
	return nil
}

func ParseStatus(str string) (Status, error) {
	for _, s := range []Status{Registered, Confirmed, Rejected} {
		if s.String() == str {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid reclamation status", str))
}

var ErrReclamationIsNotConstructed = errors.New("Reclamation must be created via NewReclamation constructor")

// Reclamation writes a defective quantity off a pallet. The quantity stays counted
// against the part so it can never be allocated to a pallet again.
type Reclamation struct {
	id           kernel.UUID
	partID       kernel.UUID
	palletID     *kernel.UUID
	routeStageID kernel.UUID
	quantity     kernel.Quantity
	status       Status
	createdAt    time.Time

	guard guard.ConstructorGuard
}

// NewReclamation registers a defect found on routeStageID.
func NewReclamation(
	id kernel.UUID,
	partID kernel.UUID,
	palletID *kernel.UUID,
	routeStageID kernel.UUID,
	quantity kernel.Quantity,
	createdAt time.Time,
) (*Reclamation, error) {
	return RestoreReclamation(id, partID, palletID, routeStageID, quantity, Registered, createdAt)
}

func RestoreReclamation(
	id kernel.UUID,
	partID kernel.UUID,
	palletID *kernel.UUID,
	routeStageID kernel.UUID,
	quantity kernel.Quantity,
	status Status,
	createdAt time.Time,
) (*Reclamation, error) {
	var errList []error
	errList = append(errList, id.Validate(), partID.Validate(), routeStageID.Validate(), status.Validate())
	if palletID != nil {
		errList = append(errList, palletID.Validate())
	}
	if !quantity.IsPositive() {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", quantity.String(), "greater than 0", "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Reclamation{
		id:           id,
		partID:       partID,
		palletID:     palletID,
		routeStageID: routeStageID,
		quantity:     quantity,
		status:       status,
		createdAt:    createdAt,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (r *Reclamation) Validate() error {
	if r == nil {
		return ErrReclamationIsNotConstructed
	}
	return r.guard.Validate(ErrReclamationIsNotConstructed)
}

func (r *Reclamation) ID() kernel.UUID {
	return r.id
}

func (r *Reclamation) PartID() kernel.UUID {
	return r.partID
}

// PalletID is nil once the pallet the defect came from has been deleted.
func (r *Reclamation) PalletID() *kernel.UUID {
	return r.palletID
}

func (r *Reclamation) RouteStageID() kernel.UUID {
	return r.routeStageID
}

func (r *Reclamation) Quantity() kernel.Quantity {
	return r.quantity
}

func (r *Reclamation) Status() Status {
	return r.status
}

func (r *Reclamation) CreatedAt() time.Time {
	return r.createdAt
}
