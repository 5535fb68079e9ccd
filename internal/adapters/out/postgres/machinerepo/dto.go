// Package machinerepo persists the machine registry and the assignment ledger.
// Capabilities are stored as a postgres uuid[] column.
package machinerepo

import (
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type MachineDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Status       string         `gorm:"type:varchar(32);not null"`
	Capabilities pq.StringArray `gorm:"type:uuid[];not null"`
}

func (MachineDTO) TableName() string {
	return "machines"
}

// AssignmentDTO is a row of the assignment ledger. The partial unique index
// allows at most one open assignment per pallet.
type AssignmentDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PalletID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_assignments_open_pallet,where:completed_at IS NULL"`
	MachineID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RouteStageID uuid.UUID `gorm:"type:uuid;not null"`
	AssignedAt   time.Time `gorm:"not null"`
	CompletedAt  *time.Time
}

func (AssignmentDTO) TableName() string {
	return "machine_assignments"
}

func machineFromDomain(m *machine.Machine) MachineDTO {
	capabilities := make(pq.StringArray, 0, len(m.Capabilities()))
	for _, c := range m.Capabilities() {
		capabilities = append(capabilities, c.String())
	}

	return MachineDTO{
		ID:           m.ID().Bytes(),
		Name:         m.Name(),
		Status:       m.Status().String(),
		Capabilities: capabilities,
	}
}

func machineToDomain(dto MachineDTO) (*machine.Machine, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := machine.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	capabilities := make([]kernel.UUID, 0, len(dto.Capabilities))
	for _, raw := range dto.Capabilities {
		c, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		capabilities = append(capabilities, c)
	}

	return machine.NewMachine(id, dto.Name, status, capabilities)
}

func assignmentFromDomain(a *machine.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:           a.ID().Bytes(),
		PalletID:     a.PalletID().Bytes(),
		MachineID:    a.MachineID().Bytes(),
		RouteStageID: a.RouteStageID().Bytes(),
		AssignedAt:   a.AssignedAt(),
		CompletedAt:  a.CompletedAt(),
	}
}

func assignmentToDomain(dto AssignmentDTO) (*machine.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	palletID, err := kernel.UUIDFromBytes(dto.PalletID[:])
	if err != nil {
		return nil, err
	}
	machineID, err := kernel.UUIDFromBytes(dto.MachineID[:])
	if err != nil {
		return nil, err
	}
	routeStageID, err := kernel.UUIDFromBytes(dto.RouteStageID[:])
	if err != nil {
		return nil, err
	}

	return machine.RestoreAssignment(id, palletID, machineID, routeStageID, dto.AssignedAt.UTC(), utc(dto.CompletedAt))
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
