package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topics on the notification bus.
const (
	TopicPalletMoved         = "pallet.moved"
	TopicAssignmentChanged   = "assignment.changed"
	TopicStageStarted        = "stage.started"
	TopicStageCompleted      = "stage.completed"
	TopicPartProgress        = "part.progress"
	TopicPalletRedistributed = "pallet.redistributed"
	TopicDefectReported      = "defect.reported"
	TopicPackagingReady      = "packaging.ready"
)

// Event is a fact produced by a committed routing operation.
type Event interface {
	Topic() string
	// Subject is the entity the event is about; it is used as the message key.
	Subject() string
	OccurredAt() time.Time
}

type AssignmentChange string

const (
	AssignmentOpened AssignmentChange = "OPENED"
	AssignmentClosed AssignmentChange = "CLOSED"
)

// PalletMoved is emitted when a pallet enters or leaves a buffer cell or is
// handed to another machine.
type PalletMoved struct {
	PalletID   string    `json:"palletId"`
	FromCellID string    `json:"fromCellId,omitempty"`
	ToCellID   string    `json:"toCellId,omitempty"`
	MachineID  string    `json:"machineId,omitempty"`
	At         time.Time `json:"at"`
}

func (e PalletMoved) Topic() string         { return TopicPalletMoved }
func (e PalletMoved) Subject() string       { return e.PalletID }
func (e PalletMoved) OccurredAt() time.Time { return e.At }

type AssignmentChanged struct {
	AssignmentID string           `json:"assignmentId"`
	PalletID     string           `json:"palletId"`
	MachineID    string           `json:"machineId"`
	RouteStageID string           `json:"routeStageId"`
	Change       AssignmentChange `json:"change"`
	At           time.Time        `json:"at"`
}

func (e AssignmentChanged) Topic() string         { return TopicAssignmentChanged }
func (e AssignmentChanged) Subject() string       { return e.PalletID }
func (e AssignmentChanged) OccurredAt() time.Time { return e.At }

type StageStarted struct {
	PalletID     string    `json:"palletId"`
	PartID       string    `json:"partId"`
	RouteStageID string    `json:"routeStageId"`
	MachineID    string    `json:"machineId"`
	At           time.Time `json:"at"`
}

func (e StageStarted) Topic() string         { return TopicStageStarted }
func (e StageStarted) Subject() string       { return e.PalletID }
func (e StageStarted) OccurredAt() time.Time { return e.At }

type StageCompleted struct {
	PalletID     string    `json:"palletId"`
	PartID       string    `json:"partId"`
	RouteStageID string    `json:"routeStageId"`
	MachineID    string    `json:"machineId"`
	At           time.Time `json:"at"`
}

func (e StageCompleted) Topic() string         { return TopicStageCompleted }
func (e StageCompleted) Subject() string       { return e.PalletID }
func (e StageCompleted) OccurredAt() time.Time { return e.At }

// PartProgressChanged carries the recomputed aggregate of a part. CompletionPercent
// is what package and order collaborators roll up.
type PartProgressChanged struct {
	PartID            string           `json:"partId"`
	PartStatus        string           `json:"partStatus"`
	Stages            []StageAggregate `json:"stages"`
	CompletionPercent decimal.Decimal  `json:"completionPercent"`
	At                time.Time        `json:"at"`
}

type StageAggregate struct {
	RouteStageID string `json:"routeStageId"`
	Status       string `json:"status"`
}

func (e PartProgressChanged) Topic() string         { return TopicPartProgress }
func (e PartProgressChanged) Subject() string       { return e.PartID }
func (e PartProgressChanged) OccurredAt() time.Time { return e.At }

type PalletRedistributed struct {
	SourcePalletID string                 `json:"sourcePalletId"`
	PartID         string                 `json:"partId"`
	Targets        []RedistributionTarget `json:"targets"`
	SourceDeleted  bool                   `json:"sourceDeleted"`
	At             time.Time              `json:"at"`
}

type RedistributionTarget struct {
	PalletID string          `json:"palletId"`
	Quantity decimal.Decimal `json:"quantity"`
	Created  bool            `json:"created"`
}

func (e PalletRedistributed) Topic() string         { return TopicPalletRedistributed }
func (e PalletRedistributed) Subject() string       { return e.SourcePalletID }
func (e PalletRedistributed) OccurredAt() time.Time { return e.At }

type DefectReported struct {
	ReclamationID string          `json:"reclamationId"`
	PartID        string          `json:"partId"`
	PalletID      string          `json:"palletId"`
	RouteStageID  string          `json:"routeStageId"`
	Quantity      decimal.Decimal `json:"quantity"`
	PalletDeleted bool            `json:"palletDeleted"`
	At            time.Time       `json:"at"`
}

func (e DefectReported) Topic() string         { return TopicDefectReported }
func (e DefectReported) Subject() string       { return e.PalletID }
func (e DefectReported) OccurredAt() time.Time { return e.At }

// PackagingReady signals that every pallet of a part has finished routing.
type PackagingReady struct {
	PartID string    `json:"partId"`
	At     time.Time `json:"at"`
}

func (e PackagingReady) Topic() string         { return TopicPackagingReady }
func (e PackagingReady) Subject() string       { return e.PartID }
func (e PackagingReady) OccurredAt() time.Time { return e.At }
