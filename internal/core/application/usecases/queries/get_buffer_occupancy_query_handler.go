package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GetBufferOccupancyQueryHandler struct {
	db *gorm.DB
}

func NewGetBufferOccupancyQueryHandler(db *gorm.DB) GetBufferOccupancyQueryHandler {
	return GetBufferOccupancyQueryHandler{db: db}
}

// Handle returns all cells ordered by name.
func (h GetBufferOccupancyQueryHandler) Handle(
	ctx context.Context,
	query GetBufferOccupancyQuery,
) ([]GetBufferOccupancyQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cells := make([]GetBufferOccupancyQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.name,
			c.capacity,
			COUNT(bp.id) AS load,
			CASE
				WHEN c.reserved THEN 'RESERVED'
				WHEN COUNT(bp.id) >= c.capacity THEN 'OCCUPIED'
				ELSE 'AVAILABLE'
			END,
			COALESCE(array_agg(bp.pallet_id::text ORDER BY bp.placed_at) FILTER (WHERE bp.id IS NOT NULL), '{}')
		FROM buffer_cells c
		LEFT JOIN buffer_placements bp ON bp.cell_id = c.id AND bp.removed_at IS NULL
		GROUP BY c.id, c.name, c.capacity, c.reserved
		ORDER BY c.name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetBufferOccupancyQueryResponse
		var id uuid.UUID
		var palletIDs pq.StringArray

		err = rows.Scan(
			&id,
			&resp.Name,
			&resp.Capacity,
			&resp.Load,
			&resp.Status,
			&palletIDs,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = toUUID(id); err != nil {
			return nil, err
		}
		for _, raw := range palletIDs {
			palletID, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				return nil, parseErr
			}
			v, convErr := toUUID(palletID)
			if convErr != nil {
				return nil, convErr
			}
			resp.PalletIDs = append(resp.PalletIDs, v)
		}
		cells = append(cells, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return cells, nil
}
