package http

import (
	"production/internal/core/application/usecases/commands"
	"production/internal/core/application/usecases/queries"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/pallet"
	"production/internal/core/domain/model/reclamation"
	"production/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func palletFromDomain(p *pallet.Pallet) servers.Pallet {
	return servers.Pallet{
		Id:       p.ID().Bytes(),
		PartId:   p.PartID().Bytes(),
		Number:   p.Number(),
		Quantity: p.Quantity().Decimal(),
	}
}

func assignmentFromDomain(a *machine.Assignment) servers.Assignment {
	return servers.Assignment{
		Id:           a.ID().Bytes(),
		PalletId:     a.PalletID().Bytes(),
		MachineId:    a.MachineID().Bytes(),
		RouteStageId: a.RouteStageID().Bytes(),
		AssignedAt:   a.AssignedAt(),
		CompletedAt:  a.CompletedAt(),
	}
}

func placementFromDomain(p *buffer.Placement) servers.Placement {
	return servers.Placement{
		Id:       p.ID().Bytes(),
		PalletId: p.PalletID().Bytes(),
		CellId:   p.CellID().Bytes(),
		PlacedAt: p.PlacedAt(),
	}
}

func redistributionFromResult(r commands.RedistributeResult) servers.Redistribution {
	targets := make([]servers.Pallet, 0, len(r.Targets))
	for _, p := range r.Targets {
		targets = append(targets, palletFromDomain(p))
	}
	return servers.Redistribution{Targets: targets, SourceDeleted: r.SourceDeleted}
}

func reclamationFromDomain(r *reclamation.Reclamation) servers.Reclamation {
	return servers.Reclamation{
		Id:           r.ID().Bytes(),
		PartId:       r.PartID().Bytes(),
		PalletId:     optionalUUID(r.PalletID()),
		RouteStageId: r.RouteStageID().Bytes(),
		Quantity:     r.Quantity().Decimal(),
		Status:       r.Status().String(),
		CreatedAt:    r.CreatedAt(),
	}
}

func cellFromDomain(c *buffer.Cell) servers.Cell {
	ids := make([]openapi_types.UUID, 0, c.Load())
	for _, p := range c.Placements() {
		ids = append(ids, p.PalletID().Bytes())
	}
	return servers.Cell{
		Id:        c.ID().Bytes(),
		Name:      c.Name(),
		Capacity:  c.Capacity(),
		Load:      c.Load(),
		Status:    servers.CellStatus(c.Status().String()),
		PalletIds: ids,
	}
}

func cellFromQuery(r queries.GetBufferOccupancyQueryResponse) servers.Cell {
	ids := make([]openapi_types.UUID, 0, len(r.PalletIDs))
	for _, id := range r.PalletIDs {
		ids = append(ids, id.Bytes())
	}
	return servers.Cell{
		Id:        r.ID.Bytes(),
		Name:      r.Name,
		Capacity:  r.Capacity,
		Load:      r.Load,
		Status:    servers.CellStatus(r.Status),
		PalletIds: ids,
	}
}

func palletLocationFromQuery(r queries.GetPalletsByPartQueryResponse) servers.PalletLocation {
	return servers.PalletLocation{
		Id:               r.ID.Bytes(),
		Number:           r.Number,
		Quantity:         r.Quantity,
		CurrentStageId:   optionalUUID(r.CurrentStageID),
		CurrentStageName: r.CurrentStageName,
		Status:           r.Status,
		MachineId:        optionalUUID(r.MachineID),
		CellId:           optionalUUID(r.CellID),
	}
}

func machineWorkFromQuery(r queries.GetOpenAssignmentsByMachineQueryResponse) servers.MachineWork {
	return servers.MachineWork{
		AssignmentId: r.AssignmentID.Bytes(),
		PalletId:     r.PalletID.Bytes(),
		PalletNumber: r.PalletNumber,
		PartId:       r.PartID.Bytes(),
		Quantity:     r.Quantity,
		RouteStageId: r.RouteStageID.Bytes(),
		StageName:    r.StageName,
		Status:       r.Status,
		AssignedAt:   r.AssignedAt,
	}
}

func optionalUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	u := id.Bytes()
	return &u
}
