package commands

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrReportDefectCommandIsNotConstructed = errors.New(
	"ReportDefectCommand must be created via NewReportDefectCommand constructor",
)

// ReportDefectCommand takes defective quantity off a pallet and registers it
// against the route stage where the defect was found.
type ReportDefectCommand struct {
	palletID     kernel.UUID
	quantity     kernel.Quantity
	routeStageID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReportDefectCommand(
	palletID kernel.UUID,
	quantity kernel.Quantity,
	routeStageID kernel.UUID,
) (ReportDefectCommand, error) {
	errList := []error{palletID.Validate(), routeStageID.Validate()}
	if !quantity.IsPositive() {
		errList = append(errList,
			errs.NewValueIsOutOfRangeError("quantity", quantity.String(), "greater than 0", "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return ReportDefectCommand{}, errs.NewValueIsInvalidErrorWithCause("reportDefect", err)
	}

	return ReportDefectCommand{
		palletID:     palletID,
		quantity:     quantity,
		routeStageID: routeStageID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c *ReportDefectCommand) Validate() error {
	return c.guard.Validate(ErrReportDefectCommandIsNotConstructed)
}

func (c *ReportDefectCommand) PalletID() kernel.UUID {
	return c.palletID
}

func (c *ReportDefectCommand) Quantity() kernel.Quantity {
	return c.quantity
}

func (c *ReportDefectCommand) RouteStageID() kernel.UUID {
	return c.routeStageID
}
