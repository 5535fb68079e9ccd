package queries

import (
	"production/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

func toUUID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func toOptionalUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	v, err := toUUID(id.UUID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
