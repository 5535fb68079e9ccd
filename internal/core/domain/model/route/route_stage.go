package route

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrRouteStageIsNotConstructed = errors.New("RouteStage must be created via NewRouteStage constructor")

// RouteStage is one step of a route: a stage from the catalog, optionally narrowed
// to a sub-stage, at a given position in the sequence.
type RouteStage struct {
	id             kernel.UUID
	sequenceNumber int
	stageID        kernel.UUID
	subStageID     *kernel.UUID
	stageName      string
	isFinal        bool

	guard guard.ConstructorGuard
}

// NewRouteStage creates a route stage. isFinal marks the packaging/hand-off stage.
func NewRouteStage(
	id kernel.UUID,
	sequenceNumber int,
	stageID kernel.UUID,
	subStageID *kernel.UUID,
	stageName string,
	isFinal bool,
) (*RouteStage, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := stageID.Validate(); err != nil {
		return nil, err
	}
	if subStageID != nil {
		if err := subStageID.Validate(); err != nil {
			return nil, err
		}
	}
	if sequenceNumber < 0 {
		return nil, errs.NewValueIsOutOfRangeError("sequenceNumber", sequenceNumber, 0, "unbounded")
	}

	return &RouteStage{
		id:             id,
		sequenceNumber: sequenceNumber,
		stageID:        stageID,
		subStageID:     subStageID,
		stageName:      stageName,
		isFinal:        isFinal,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (s *RouteStage) Validate() error {
	return s.guard.Validate(ErrRouteStageIsNotConstructed)
}

func (s *RouteStage) ID() kernel.UUID {
	return s.id
}

func (s *RouteStage) SequenceNumber() int {
	return s.sequenceNumber
}

func (s *RouteStage) StageID() kernel.UUID {
	return s.stageID
}

// SubStageID is nil when the route stage covers the whole stage.
func (s *RouteStage) SubStageID() *kernel.UUID {
	return s.subStageID
}

func (s *RouteStage) StageName() string {
	return s.stageName
}

func (s *RouteStage) IsFinal() bool {
	return s.isFinal
}
