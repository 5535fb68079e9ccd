package progress

import (
	"fmt"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/route"
	"production/internal/pkg/errs"
)

// Rules reported by the stage state machine.
const (
	RuleSequenceViolation = "SequenceViolation"
	RuleAlreadyCompleted  = "AlreadyCompleted"
	RuleAlreadyInProgress = "AlreadyInProgress"
	RuleNotStarted        = "NotStarted"
	RuleRouteCompleted    = "RouteCompleted"
)

// Tracker is the stage state machine for one pallet on its part's route.
// It holds the pallet's progress rows keyed by route stage and records which rows
// were created or changed so the caller can persist exactly those.
type Tracker struct {
	route    *route.Route
	palletID kernel.UUID
	rows     map[kernel.UUID]*StageProgress
	added    map[kernel.UUID]bool
	changed  map[kernel.UUID]bool
}

// NewTracker wraps the persisted rows of a pallet. Rows for other pallets, for
// stages not on the route, or duplicated per stage are rejected.
func NewTracker(r *route.Route, palletID kernel.UUID, rows []*StageProgress) (*Tracker, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := palletID.Validate(); err != nil {
		return nil, err
	}

	t := &Tracker{
		route:    r,
		palletID: palletID,
		rows:     make(map[kernel.UUID]*StageProgress, len(rows)),
		added:    map[kernel.UUID]bool{},
		changed:  map[kernel.UUID]bool{},
	}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, err
		}
		if !row.PalletID().IsEqual(palletID) {
			return nil, errs.NewValueIsInvalidErrorWithCause("progress",
				fmt.Errorf("row %s belongs to pallet %s", row.ID(), row.PalletID()))
		}
		if _, err := r.Stage(row.RouteStageID()); err != nil {
			return nil, err
		}
		if _, dup := t.rows[row.RouteStageID()]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("progress",
				fmt.Errorf("duplicate row for route stage %s", row.RouteStageID()))
		}
		t.rows[row.RouteStageID()] = row
	}

	return t, nil
}

func (t *Tracker) PalletID() kernel.UUID {
	return t.palletID
}

func (t *Tracker) Route() *route.Route {
	return t.route
}

// Row returns the row for a route stage if one exists.
func (t *Tracker) Row(routeStageID kernel.UUID) (*StageProgress, bool) {
	row, ok := t.rows[routeStageID]
	return row, ok
}

// StatusOf is the status on a route stage; a missing row reads as NOT_PROCESSED.
func (t *Tracker) StatusOf(routeStageID kernel.UUID) Status {
	if row, ok := t.rows[routeStageID]; ok {
		return row.Status()
	}
	return NotProcessed
}

// Rows returns the existing rows in route order.
func (t *Tracker) Rows() []*StageProgress {
	out := make([]*StageProgress, 0, len(t.rows))
	for _, s := range t.route.Stages() {
		if row, ok := t.rows[s.ID()]; ok {
			out = append(out, row)
		}
	}
	return out
}

// Added returns rows created since the tracker was built, in route order.
func (t *Tracker) Added() []*StageProgress {
	return t.collect(t.added)
}

// Changed returns pre-existing rows whose status changed, in route order.
func (t *Tracker) Changed() []*StageProgress {
	return t.collect(t.changed)
}

// EnsureProgress returns the row for stage, creating it at NOT_PROCESSED.
func (t *Tracker) EnsureProgress(stage *route.RouteStage) (*StageProgress, error) {
	if _, err := t.route.Stage(stage.ID()); err != nil {
		return nil, err
	}
	if row, ok := t.rows[stage.ID()]; ok {
		return row, nil
	}

	row, err := NewStageProgress(kernel.NewUUID(), t.palletID, stage.ID())
	if err != nil {
		return nil, err
	}
	t.rows[stage.ID()] = row
	t.added[stage.ID()] = true
	return row, nil
}

// CurrentStage is the first route stage without a COMPLETED row.
func (t *Tracker) CurrentStage() (*route.RouteStage, error) {
	for _, s := range t.route.Stages() {
		if t.StatusOf(s.ID()) != Completed {
			return s, nil
		}
	}
	return nil, errs.NewRuleViolationError(RuleRouteCompleted,
		fmt.Sprintf("pallet %s has completed every stage of route %s", t.palletID, t.route.ID()))
}

// RoutingCompleted reports whether every non-final stage is COMPLETED.
func (t *Tracker) RoutingCompleted() bool {
	for _, s := range t.route.RoutingStages() {
		if t.StatusOf(s.ID()) != Completed {
			return false
		}
	}
	return true
}

// MarkPending records a supervisor assignment on stage. Work that had started
// on another machine is reset to PENDING.
func (t *Tracker) MarkPending(stage *route.RouteStage) error {
	if err := t.checkSequence(stage); err != nil {
		return err
	}
	row, err := t.EnsureProgress(stage)
	if err != nil {
		return err
	}
	next, err := row.status.markPending()
	if err != nil {
		return err
	}
	t.set(row, next, nil)
	return nil
}

// AdvanceToInProgress starts work on stage. Legal from NOT_PROCESSED and PENDING.
func (t *Tracker) AdvanceToInProgress(stage *route.RouteStage) error {
	if err := t.checkSequence(stage); err != nil {
		return err
	}
	row, err := t.EnsureProgress(stage)
	if err != nil {
		return err
	}
	next, err := row.status.start()
	if err != nil {
		return err
	}
	t.set(row, next, nil)
	return nil
}

// Complete finishes work on stage. When the next stage is the final one its row
// is seeded and returned; intermediate stages are never pre-created.
func (t *Tracker) Complete(stage *route.RouteStage, at time.Time) (*StageProgress, error) {
	if err := t.checkSequence(stage); err != nil {
		return nil, err
	}
	row, ok := t.rows[stage.ID()]
	if !ok {
		return nil, errs.NewRuleViolationError(RuleNotStarted,
			fmt.Sprintf("stage %s has not been started", stage.StageName()))
	}
	next, err := row.status.complete()
	if err != nil {
		return nil, err
	}
	t.set(row, next, &at)

	following, ok := t.route.Next(stage.ID())
	if !ok || !following.IsFinal() {
		return nil, nil
	}
	return t.EnsureProgress(following)
}

// Snapshot copies this pallet's history onto a new pallet. Completed rows are
// always copied. The current stage row keeps its status when includeCurrent is
// set and is seeded NOT_PROCESSED otherwise.
func (t *Tracker) Snapshot(newPalletID kernel.UUID, includeCurrent bool) ([]*StageProgress, error) {
	if err := newPalletID.Validate(); err != nil {
		return nil, err
	}

	var out []*StageProgress
	for _, s := range t.route.Stages() {
		row, ok := t.rows[s.ID()]
		if ok && row.IsCompleted() {
			out = append(out, row.copyFor(newPalletID, Completed))
			continue
		}

		status := NotProcessed
		if ok && includeCurrent {
			status = row.Status()
		}
		seed, err := NewStageProgress(kernel.NewUUID(), newPalletID, s.ID())
		if err != nil {
			return nil, err
		}
		seed.status = status
		out = append(out, seed)
		break
	}
	return out, nil
}

func (t *Tracker) checkSequence(stage *route.RouteStage) error {
	if _, err := t.route.Stage(stage.ID()); err != nil {
		return err
	}
	prev, ok := t.route.Previous(stage.ID())
	if !ok {
		return nil
	}
	if t.StatusOf(prev.ID()) != Completed {
		return errs.NewRuleViolationError(RuleSequenceViolation,
			fmt.Sprintf("previous stage %s (#%d) is not completed", prev.StageName(), prev.SequenceNumber()))
	}
	return nil
}

func (t *Tracker) set(row *StageProgress, status Status, completedAt *time.Time) {
	if row.status == status {
		return
	}
	row.status = status
	row.completedAt = completedAt
	if !t.added[row.routeStageID] {
		t.changed[row.routeStageID] = true
	}
}

func (t *Tracker) collect(keys map[kernel.UUID]bool) []*StageProgress {
	out := make([]*StageProgress, 0, len(keys))
	for _, s := range t.route.Stages() {
		if keys[s.ID()] {
			out = append(out, t.rows[s.ID()])
		}
	}
	return out
}
