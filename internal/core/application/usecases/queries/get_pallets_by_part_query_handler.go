package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetPalletsByPartQueryHandler reads pallets with their current stage in one
// statement.
type GetPalletsByPartQueryHandler struct {
	db *gorm.DB
}

func NewGetPalletsByPartQueryHandler(db *gorm.DB) GetPalletsByPartQueryHandler {
	return GetPalletsByPartQueryHandler{db: db}
}

// Handle returns the part's pallets ordered by number. An unknown part yields
// an empty slice.
func (h GetPalletsByPartQueryHandler) Handle(
	ctx context.Context,
	query GetPalletsByPartQuery,
) ([]GetPalletsByPartQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pallets := make([]GetPalletsByPartQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.number,
			p.quantity,
			cur.id,
			COALESCE(cur.stage_name, ''),
			COALESCE(sp.status, CASE WHEN cur.id IS NULL THEN 'COMPLETED' ELSE 'NOT_PROCESSED' END),
			a.machine_id,
			bp.cell_id
		FROM pallets p
		JOIN parts pt ON pt.id = p.part_id
		LEFT JOIN LATERAL (
			SELECT rs.id, rs.stage_name
			FROM route_stages rs
			WHERE rs.route_id = pt.route_id
			  AND NOT EXISTS (
				SELECT 1 FROM pallet_stage_progress done
				WHERE done.pallet_id = p.id
				  AND done.route_stage_id = rs.id
				  AND done.status = 'COMPLETED'
			  )
			ORDER BY rs.sequence_number
			LIMIT 1
		) cur ON true
		LEFT JOIN pallet_stage_progress sp ON sp.pallet_id = p.id AND sp.route_stage_id = cur.id
		LEFT JOIN machine_assignments a ON a.pallet_id = p.id AND a.completed_at IS NULL
		LEFT JOIN buffer_placements bp ON bp.pallet_id = p.id AND bp.removed_at IS NULL
		WHERE p.part_id = ?
		ORDER BY p.number
	`, query.PartID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPalletsByPartQueryResponse
		var id uuid.UUID
		var quantity decimal.Decimal
		var stageID, machineID, cellID uuid.NullUUID

		err = rows.Scan(
			&id,
			&resp.Number,
			&quantity,
			&stageID,
			&resp.CurrentStageName,
			&resp.Status,
			&machineID,
			&cellID,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = toUUID(id); err != nil {
			return nil, err
		}
		if resp.CurrentStageID, err = toOptionalUUID(stageID); err != nil {
			return nil, err
		}
		if resp.MachineID, err = toOptionalUUID(machineID); err != nil {
			return nil, err
		}
		if resp.CellID, err = toOptionalUUID(cellID); err != nil {
			return nil, err
		}
		resp.Quantity = quantity
		pallets = append(pallets, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return pallets, nil
}
