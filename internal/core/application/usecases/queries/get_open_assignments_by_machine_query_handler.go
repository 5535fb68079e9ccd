package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOpenAssignmentsByMachineQueryHandler struct {
	db *gorm.DB
}

func NewGetOpenAssignmentsByMachineQueryHandler(db *gorm.DB) GetOpenAssignmentsByMachineQueryHandler {
	return GetOpenAssignmentsByMachineQueryHandler{db: db}
}

// Handle returns the machine's open assignments, oldest first.
func (h GetOpenAssignmentsByMachineQueryHandler) Handle(
	ctx context.Context,
	query GetOpenAssignmentsByMachineQuery,
) ([]GetOpenAssignmentsByMachineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	assignments := make([]GetOpenAssignmentsByMachineQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			p.id,
			p.number,
			p.part_id,
			p.quantity,
			rs.id,
			rs.stage_name,
			COALESCE(sp.status, 'NOT_PROCESSED'),
			a.assigned_at
		FROM machine_assignments a
		JOIN pallets p ON p.id = a.pallet_id
		JOIN route_stages rs ON rs.id = a.route_stage_id
		LEFT JOIN pallet_stage_progress sp ON sp.pallet_id = a.pallet_id AND sp.route_stage_id = a.route_stage_id
		WHERE a.machine_id = ? AND a.completed_at IS NULL
		ORDER BY a.assigned_at, p.number
	`, query.MachineID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOpenAssignmentsByMachineQueryResponse
		var assignmentID, palletID, partID, routeStageID uuid.UUID

		err = rows.Scan(
			&assignmentID,
			&palletID,
			&resp.PalletNumber,
			&partID,
			&resp.Quantity,
			&routeStageID,
			&resp.StageName,
			&resp.Status,
			&resp.AssignedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.AssignmentID, err = toUUID(assignmentID); err != nil {
			return nil, err
		}
		if resp.PalletID, err = toUUID(palletID); err != nil {
			return nil, err
		}
		if resp.PartID, err = toUUID(partID); err != nil {
			return nil, err
		}
		if resp.RouteStageID, err = toUUID(routeStageID); err != nil {
			return nil, err
		}
		resp.AssignedAt = resp.AssignedAt.UTC()
		assignments = append(assignments, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
