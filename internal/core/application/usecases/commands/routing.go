package commands

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/pallet"
	"production/internal/core/domain/model/part"
	"production/internal/core/domain/model/progress"
	"production/internal/core/domain/model/route"
	"production/internal/core/domain/services"
	"production/internal/core/ports"
	"production/internal/pkg/errs"
	"production/internal/pkg/tracing"
)

var tracer = tracing.Tracer("production/commands")

var now = func() time.Time {
	return time.Now().UTC()
}

// notificationQueueSize bounds the outcomes waiting for delivery.
const notificationQueueSize = 256

// Notifier hands committed events to the notification bus and routing
// completion to the packaging queue. Delivery runs on a background worker so
// a command returns as soon as its transaction commits. Failures are logged
// and never returned: the state change they describe is already durable.
type Notifier struct {
	publisher ports.EventPublisher
	packaging ports.PackagingQueue
	logger    *slog.Logger

	mu      sync.Mutex
	closed  bool
	queue   chan delivery
	pending sync.WaitGroup
	done    chan struct{}
}

type delivery struct {
	ctx     context.Context
	outcome *outcome
}

func NewNotifier(publisher ports.EventPublisher, packaging ports.PackagingQueue, logger *slog.Logger) *Notifier {
	n := &Notifier{
		publisher: publisher,
		packaging: packaging,
		logger:    logger.With("component", "notifier"),
		queue:     make(chan delivery, notificationQueueSize),
		done:      make(chan struct{}),
	}
	go n.run()
	return n
}

// Flush blocks until every queued outcome has been delivered.
func (n *Notifier) Flush() {
	n.pending.Wait()
}

// Close stops accepting outcomes and waits for the queued ones to be
// delivered or for ctx to end.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// notify queues o without waiting for the bus. A full queue drops o.
func (n *Notifier) notify(ctx context.Context, o *outcome) {
	if n == nil || (len(o.events) == 0 && len(o.routed) == 0) {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		n.logger.WarnContext(ctx, "notifier is closed, dropping notifications",
			"count", len(o.events), "routed", len(o.routed))
		return
	}

	n.pending.Add(1)
	select {
	case n.queue <- delivery{ctx: context.WithoutCancel(ctx), outcome: o}:
	default:
		n.pending.Done()
		n.logger.ErrorContext(ctx, "notification queue is full, dropping notifications",
			"count", len(o.events), "routed", len(o.routed), "trace_id", tracing.TraceID(ctx))
	}
}

func (n *Notifier) run() {
	defer close(n.done)
	for d := range n.queue {
		n.deliver(d.ctx, d.outcome)
		n.pending.Done()
	}
}

func (n *Notifier) deliver(ctx context.Context, o *outcome) {
	if len(o.events) > 0 {
		if err := n.publisher.Publish(ctx, o.events...); err != nil {
			n.logger.ErrorContext(ctx, "failed to publish events",
				"count", len(o.events), "trace_id", tracing.TraceID(ctx), "error", err)
		}
	}
	for _, partID := range o.routed {
		if err := n.packaging.NotifyRoutingCompleted(ctx, partID, o.at); err != nil {
			n.logger.ErrorContext(ctx, "failed to signal packaging",
				"part_id", partID.String(), "error", err)
		}
	}
}

// outcome collects what a transaction has to announce once it commits.
type outcome struct {
	at     time.Time
	events []events.Event
	routed []kernel.UUID
}

func newOutcome(at time.Time) *outcome {
	return &outcome{at: at}
}

func (o *outcome) add(evts ...events.Event) {
	o.events = append(o.events, evts...)
}

// optional turns a not-found lookup into an absent value.
func optional[T any](v T, err error) (T, bool, error) {
	var zero T
	if errors.Is(err, errs.ErrObjectNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// palletScope is a locked pallet together with its locked part, the part's
// route and the pallet's progress.
type palletScope struct {
	pallet  *pallet.Pallet
	part    *part.Part
	route   *route.Route
	tracker *progress.Tracker
}

// lockPallets locks pallets in id order.
func lockPallets(ctx context.Context, uow UoW, ids ...kernel.UUID) (map[kernel.UUID]*pallet.Pallet, error) {
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, compareUUID)
	ordered = slices.CompactFunc(ordered, kernel.UUID.IsEqual)

	locked := make(map[kernel.UUID]*pallet.Pallet, len(ordered))
	for _, id := range ordered {
		p, err := uow.PalletRepository().GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = p
	}
	return locked, nil
}

func lockPalletScope(ctx context.Context, uow UoW, palletID kernel.UUID) (*palletScope, error) {
	locked, err := lockPallets(ctx, uow, palletID)
	if err != nil {
		return nil, err
	}
	return loadScope(ctx, uow, locked[palletID])
}

// loadScope locks the part of an already locked pallet.
func loadScope(ctx context.Context, uow UoW, p *pallet.Pallet) (*palletScope, error) {
	pt, err := uow.PartRepository().GetForUpdate(ctx, p.PartID())
	if err != nil {
		return nil, err
	}
	r, err := uow.RouteRepository().Get(ctx, pt.RouteID())
	if err != nil {
		return nil, err
	}
	rows, err := uow.StageProgressRepository().ListByPallet(ctx, p.ID())
	if err != nil {
		return nil, err
	}
	tracker, err := progress.NewTracker(r, p.ID(), rows)
	if err != nil {
		return nil, err
	}
	return &palletScope{pallet: p, part: pt, route: r, tracker: tracker}, nil
}

// lockCells locks cells in id order.
func lockCells(ctx context.Context, uow CellRepoFactory, ids ...kernel.UUID) (map[kernel.UUID]*buffer.Cell, error) {
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, compareUUID)
	ordered = slices.CompactFunc(ordered, kernel.UUID.IsEqual)

	locked := make(map[kernel.UUID]*buffer.Cell, len(ordered))
	for _, id := range ordered {
		c, err := uow.CellRepository().GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = c
	}
	return locked, nil
}

func compareUUID(a, b kernel.UUID) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

func saveProgress(ctx context.Context, uow UoW, tracker *progress.Tracker) error {
	repo := uow.StageProgressRepository()
	if added := tracker.Added(); len(added) > 0 {
		if err := repo.Add(ctx, added...); err != nil {
			return err
		}
	}
	if changed := tracker.Changed(); len(changed) > 0 {
		if err := repo.Update(ctx, changed...); err != nil {
			return err
		}
	}
	return nil
}

// recomputePart rolls the persisted progress of every pallet of the locked
// part up into its stage aggregates and status.
func recomputePart(ctx context.Context, uow UoW, pt *part.Part, r *route.Route, o *outcome) error {
	pallets, err := uow.PalletRepository().ListByPart(ctx, pt.ID())
	if err != nil {
		return err
	}

	ids := make([]kernel.UUID, 0, len(pallets))
	for _, p := range pallets {
		ids = append(ids, p.ID())
	}
	rows := []*progress.StageProgress{}
	if len(ids) > 0 {
		rows, err = uow.StageProgressRepository().ListByPallets(ctx, ids)
		if err != nil {
			return err
		}
	}
	byPallet := make(map[kernel.UUID][]*progress.StageProgress, len(pallets))
	for _, row := range rows {
		byPallet[row.PalletID()] = append(byPallet[row.PalletID()], row)
	}

	states := make([]services.PalletState, 0, len(pallets))
	for _, p := range pallets {
		tracker, err := progress.NewTracker(r, p.ID(), byPallet[p.ID()])
		if err != nil {
			return err
		}
		states = append(states, services.PalletState{Quantity: p.Quantity(), Progress: tracker})
	}

	existing, err := uow.PartRouteProgressRepository().ListByPart(ctx, pt.ID())
	if err != nil {
		return err
	}

	agg, err := services.NewAggregationEngine().Recompute(pt, r, states, existing, o.at)
	if err != nil {
		return err
	}

	if len(agg.Added) > 0 {
		if err := uow.PartRouteProgressRepository().Add(ctx, agg.Added...); err != nil {
			return err
		}
	}
	if len(agg.Changed) > 0 {
		if err := uow.PartRouteProgressRepository().Update(ctx, agg.Changed...); err != nil {
			return err
		}
	}
	if agg.PartStatusChanged {
		if err := uow.PartRepository().Update(ctx, pt); err != nil {
			return err
		}
	}

	if agg.Dirty() {
		o.add(partProgressChanged(pt, agg, o.at))
	}
	if agg.RoutingJustCompleted {
		o.routed = append(o.routed, pt.ID())
	}
	return nil
}

// evict takes the pallet out of whatever buffer cell holds it.
func evict(ctx context.Context, uow UoW, palletID kernel.UUID, machineID string, o *outcome) error {
	cellID, ok, err := optional(uow.CellRepository().GetIDByPallet(ctx, palletID))
	if err != nil || !ok {
		return err
	}
	cells, err := lockCells(ctx, uow, cellID)
	if err != nil {
		return err
	}
	cell := cells[cellID]

	vacated := services.NewBufferLedger().Evict(palletID, cell, o.at)
	if vacated == nil {
		return nil
	}
	if err := uow.CellRepository().Update(ctx, cell); err != nil {
		return err
	}
	o.add(events.PalletMoved{
		PalletID:   palletID.String(),
		FromCellID: cellID.String(),
		MachineID:  machineID,
		At:         o.at,
	})
	return nil
}

// deletePallet removes an emptied pallet together with its open assignment,
// buffer placement and progress rows.
func deletePallet(ctx context.Context, uow UoW, p *pallet.Pallet, o *outcome) error {
	open, _, err := optional(uow.AssignmentRepository().GetOpenByPallet(ctx, p.ID()))
	if err != nil {
		return err
	}
	if open != nil {
		if err := open.Close(o.at); err != nil {
			return err
		}
		if err := uow.AssignmentRepository().Update(ctx, open); err != nil {
			return err
		}
		o.add(assignmentChanged(open, events.AssignmentClosed, o.at))
	}

	if err := evict(ctx, uow, p.ID(), "", o); err != nil {
		return err
	}
	if err := uow.StageProgressRepository().DeleteByPallet(ctx, p.ID()); err != nil {
		return err
	}
	return uow.PalletRepository().Delete(ctx, p.ID())
}

// applyAssignment persists what the assignment ledger decided.
func applyAssignment(ctx context.Context, uow UoW, result services.AssignResult, o *outcome) error {
	if result.Closed != nil {
		if err := uow.AssignmentRepository().Update(ctx, result.Closed); err != nil {
			return err
		}
		o.add(assignmentChanged(result.Closed, events.AssignmentClosed, o.at))
	}
	if result.Opened {
		if err := uow.AssignmentRepository().Add(ctx, result.Assignment); err != nil {
			return err
		}
		o.add(assignmentChanged(result.Assignment, events.AssignmentOpened, o.at))
	}
	return nil
}

func assignmentChanged(a *machine.Assignment, change events.AssignmentChange, at time.Time) events.AssignmentChanged {
	return events.AssignmentChanged{
		AssignmentID: a.ID().String(),
		PalletID:     a.PalletID().String(),
		MachineID:    a.MachineID().String(),
		RouteStageID: a.RouteStageID().String(),
		Change:       change,
		At:           at,
	}
}

func partProgressChanged(pt *part.Part, agg services.Aggregate, at time.Time) events.PartProgressChanged {
	stages := make([]events.StageAggregate, 0, len(agg.Stages))
	for _, row := range agg.Stages {
		stages = append(stages, events.StageAggregate{
			RouteStageID: row.RouteStageID().String(),
			Status:       row.Status().String(),
		})
	}
	return events.PartProgressChanged{
		PartID:            pt.ID().String(),
		PartStatus:        pt.Status().String(),
		Stages:            stages,
		CompletionPercent: agg.CompletionPercent,
		At:                at,
	}
}
