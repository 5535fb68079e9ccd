package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"testing"
	"time"

	"production/internal/core/application/usecases/commands"
	"production/internal/core/domain/events"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/pallet"
	"production/internal/core/domain/model/part"
	"production/internal/core/domain/model/progress"
	"production/internal/core/domain/model/reclamation"
	"production/internal/core/domain/model/route"
	"production/internal/core/ports"
	"production/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// The in-memory database below copies aggregates on every read and write, so
// handlers only see what they persisted and a rollback really discards writes.

type cellRecord struct {
	name     string
	capacity int
	reserved bool
	load     int
}

type state struct {
	routes       map[kernel.UUID]*route.Route
	machines     map[kernel.UUID]*machine.Machine
	parts        map[kernel.UUID]*part.Part
	pallets      map[kernel.UUID]*pallet.Pallet
	stageRows    map[kernel.UUID]*progress.StageProgress
	partRows     map[kernel.UUID]*progress.PartRouteProgress
	assignments  map[kernel.UUID]*machine.Assignment
	cells        map[kernel.UUID]cellRecord
	placements   map[kernel.UUID]*buffer.Placement
	reclamations map[kernel.UUID]*reclamation.Reclamation
}

func newState() *state {
	return &state{
		routes:       map[kernel.UUID]*route.Route{},
		machines:     map[kernel.UUID]*machine.Machine{},
		parts:        map[kernel.UUID]*part.Part{},
		pallets:      map[kernel.UUID]*pallet.Pallet{},
		stageRows:    map[kernel.UUID]*progress.StageProgress{},
		partRows:     map[kernel.UUID]*progress.PartRouteProgress{},
		assignments:  map[kernel.UUID]*machine.Assignment{},
		cells:        map[kernel.UUID]cellRecord{},
		placements:   map[kernel.UUID]*buffer.Placement{},
		reclamations: map[kernel.UUID]*reclamation.Reclamation{},
	}
}

func (s *state) clone() *state {
	return &state{
		routes:       maps.Clone(s.routes),
		machines:     maps.Clone(s.machines),
		parts:        maps.Clone(s.parts),
		pallets:      maps.Clone(s.pallets),
		stageRows:    maps.Clone(s.stageRows),
		partRows:     maps.Clone(s.partRows),
		assignments:  maps.Clone(s.assignments),
		cells:        maps.Clone(s.cells),
		placements:   maps.Clone(s.placements),
		reclamations: maps.Clone(s.reclamations),
	}
}

type fakeDB struct {
	state   *state
	commits int
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func copyPart(p *part.Part) *part.Part {
	return must(part.RestorePart(p.ID(), p.Name(), p.RouteID(), p.TotalQuantity(), p.Status()))
}

func copyPallet(p *pallet.Pallet) *pallet.Pallet {
	return must(pallet.RestorePallet(p.ID(), p.PartID(), p.Number(), p.Quantity()))
}

func copyStageRow(r *progress.StageProgress) *progress.StageProgress {
	return must(progress.RestoreStageProgress(r.ID(), r.PalletID(), r.RouteStageID(), r.Status(), r.CompletedAt()))
}

func copyPartRow(r *progress.PartRouteProgress) *progress.PartRouteProgress {
	return must(progress.RestorePartRouteProgress(r.ID(), r.PartID(), r.RouteStageID(), r.Status(), r.CompletedAt()))
}

func copyAssignment(a *machine.Assignment) *machine.Assignment {
	return must(machine.RestoreAssignment(a.ID(), a.PalletID(), a.MachineID(), a.RouteStageID(), a.AssignedAt(), a.CompletedAt()))
}

func copyPlacement(p *buffer.Placement) *buffer.Placement {
	return must(buffer.RestorePlacement(p.ID(), p.PalletID(), p.CellID(), p.PlacedAt(), p.RemovedAt()))
}

func (db *fakeDB) cell(id kernel.UUID) (*buffer.Cell, error) {
	rec, ok := db.state.cells[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("cell", id)
	}
	var open []*buffer.Placement
	for _, p := range db.state.placements {
		if p.CellID().IsEqual(id) && p.IsOpen() {
			open = append(open, copyPlacement(p))
		}
	}
	slices.SortFunc(open, func(a, b *buffer.Placement) int { return a.PlacedAt().Compare(b.PlacedAt()) })
	return buffer.RestoreCell(id, rec.name, rec.capacity, rec.reserved, rec.load, open)
}

func (db *fakeDB) openPlacementOf(palletID kernel.UUID) *buffer.Placement {
	for _, p := range db.state.placements {
		if p.PalletID().IsEqual(palletID) && p.IsOpen() {
			return p
		}
	}
	return nil
}

func (db *fakeDB) rowsOf(palletID kernel.UUID) []*progress.StageProgress {
	var rows []*progress.StageProgress
	for _, r := range db.state.stageRows {
		if r.PalletID().IsEqual(palletID) {
			rows = append(rows, copyStageRow(r))
		}
	}
	return rows
}

func (db *fakeDB) openAssignmentOf(palletID kernel.UUID) *machine.Assignment {
	for _, a := range db.state.assignments {
		if a.PalletID().IsEqual(palletID) && a.IsOpen() {
			return a
		}
	}
	return nil
}

type fakeFactory struct {
	db *fakeDB
}

func (f fakeFactory) Create() commands.UoW {
	return &fakeUoW{db: f.db}
}

type fakeBufferFactory struct {
	db *fakeDB
}

func (f fakeBufferFactory) Create() commands.BufferUoW {
	return &fakeUoW{db: f.db}
}

type fakeUoW struct {
	db       *fakeDB
	snapshot *state
}

func (u *fakeUoW) Begin(context.Context) error {
	u.snapshot = u.db.state.clone()
	return nil
}

func (u *fakeUoW) Commit(context.Context) error {
	u.snapshot = nil
	u.db.commits++
	return nil
}

func (u *fakeUoW) Rollback(context.Context) error {
	if u.snapshot != nil {
		u.db.state = u.snapshot
		u.snapshot = nil
	}
	return nil
}

func (u *fakeUoW) RouteRepository() ports.RouteRepository { return routeRepo{u.db} }

func (u *fakeUoW) MachineRepository() ports.MachineRepository { return machineRepo{u.db} }

func (u *fakeUoW) PartRepository() ports.PartRepository { return partRepo{u.db} }

func (u *fakeUoW) PalletRepository() ports.PalletRepository { return palletRepo{u.db} }

func (u *fakeUoW) StageProgressRepository() ports.StageProgressRepository { return stageRepo{u.db} }

func (u *fakeUoW) PartRouteProgressRepository() ports.PartRouteProgressRepository {
	return partProgressRepo{u.db}
}

func (u *fakeUoW) AssignmentRepository() ports.AssignmentRepository { return assignmentRepo{u.db} }

func (u *fakeUoW) CellRepository() ports.CellRepository { return cellRepo{u.db} }

func (u *fakeUoW) ReclamationRepository() ports.ReclamationRepository { return reclamationRepo{u.db} }

type routeRepo struct{ db *fakeDB }

func (r routeRepo) Get(_ context.Context, id kernel.UUID) (*route.Route, error) {
	if v, ok := r.db.state.routes[id]; ok {
		return v, nil
	}
	return nil, errs.NewObjectNotFoundError("route", id)
}

type machineRepo struct{ db *fakeDB }

func (r machineRepo) Get(_ context.Context, id kernel.UUID) (*machine.Machine, error) {
	if v, ok := r.db.state.machines[id]; ok {
		return v, nil
	}
	return nil, errs.NewObjectNotFoundError("machine", id)
}

type partRepo struct{ db *fakeDB }

func (r partRepo) Add(_ context.Context, p *part.Part) error {
	r.db.state.parts[p.ID()] = copyPart(p)
	return nil
}

func (r partRepo) Update(_ context.Context, p *part.Part) error {
	if _, ok := r.db.state.parts[p.ID()]; !ok {
		return errs.NewObjectNotFoundError("part", p.ID())
	}
	r.db.state.parts[p.ID()] = copyPart(p)
	return nil
}

func (r partRepo) Get(_ context.Context, id kernel.UUID) (*part.Part, error) {
	if v, ok := r.db.state.parts[id]; ok {
		return copyPart(v), nil
	}
	return nil, errs.NewObjectNotFoundError("part", id)
}

func (r partRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*part.Part, error) {
	return r.Get(ctx, id)
}

type palletRepo struct{ db *fakeDB }

func (r palletRepo) Add(_ context.Context, p *pallet.Pallet) error {
	r.db.state.pallets[p.ID()] = copyPallet(p)
	return nil
}

func (r palletRepo) Update(_ context.Context, p *pallet.Pallet) error {
	if _, ok := r.db.state.pallets[p.ID()]; !ok {
		return errs.NewObjectNotFoundError("pallet", p.ID())
	}
	r.db.state.pallets[p.ID()] = copyPallet(p)
	return nil
}

func (r palletRepo) Delete(_ context.Context, id kernel.UUID) error {
	delete(r.db.state.pallets, id)
	return nil
}

func (r palletRepo) Get(_ context.Context, id kernel.UUID) (*pallet.Pallet, error) {
	if v, ok := r.db.state.pallets[id]; ok {
		return copyPallet(v), nil
	}
	return nil, errs.NewObjectNotFoundError("pallet", id)
}

func (r palletRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*pallet.Pallet, error) {
	return r.Get(ctx, id)
}

func (r palletRepo) ListByPart(_ context.Context, partID kernel.UUID) ([]*pallet.Pallet, error) {
	var out []*pallet.Pallet
	for _, p := range r.db.state.pallets {
		if p.PartID().IsEqual(partID) {
			out = append(out, copyPallet(p))
		}
	}
	slices.SortFunc(out, func(a, b *pallet.Pallet) int { return a.Number() - b.Number() })
	return out, nil
}

func (r palletRepo) NextNumber(_ context.Context, partID kernel.UUID) (int, error) {
	highest := 0
	for _, p := range r.db.state.pallets {
		if p.PartID().IsEqual(partID) && p.Number() > highest {
			highest = p.Number()
		}
	}
	return highest + 1, nil
}

type stageRepo struct{ db *fakeDB }

func (r stageRepo) Add(_ context.Context, rows ...*progress.StageProgress) error {
	for _, row := range rows {
		r.db.state.stageRows[row.ID()] = copyStageRow(row)
	}
	return nil
}

func (r stageRepo) Update(ctx context.Context, rows ...*progress.StageProgress) error {
	return r.Add(ctx, rows...)
}

func (r stageRepo) ListByPallet(_ context.Context, palletID kernel.UUID) ([]*progress.StageProgress, error) {
	return r.db.rowsOf(palletID), nil
}

func (r stageRepo) ListByPallets(_ context.Context, palletIDs []kernel.UUID) ([]*progress.StageProgress, error) {
	var out []*progress.StageProgress
	for _, id := range palletIDs {
		out = append(out, r.db.rowsOf(id)...)
	}
	return out, nil
}

func (r stageRepo) DeleteByPallet(_ context.Context, palletID kernel.UUID) error {
	for id, row := range r.db.state.stageRows {
		if row.PalletID().IsEqual(palletID) {
			delete(r.db.state.stageRows, id)
		}
	}
	return nil
}

type partProgressRepo struct{ db *fakeDB }

func (r partProgressRepo) Add(_ context.Context, rows ...*progress.PartRouteProgress) error {
	for _, row := range rows {
		r.db.state.partRows[row.ID()] = copyPartRow(row)
	}
	return nil
}

func (r partProgressRepo) Update(ctx context.Context, rows ...*progress.PartRouteProgress) error {
	return r.Add(ctx, rows...)
}

func (r partProgressRepo) ListByPart(_ context.Context, partID kernel.UUID) ([]*progress.PartRouteProgress, error) {
	var out []*progress.PartRouteProgress
	for _, row := range r.db.state.partRows {
		if row.PartID().IsEqual(partID) {
			out = append(out, copyPartRow(row))
		}
	}
	return out, nil
}

type assignmentRepo struct{ db *fakeDB }

func (r assignmentRepo) Add(_ context.Context, a *machine.Assignment) error {
	r.db.state.assignments[a.ID()] = copyAssignment(a)
	return nil
}

func (r assignmentRepo) Update(ctx context.Context, a *machine.Assignment) error {
	return r.Add(ctx, a)
}

func (r assignmentRepo) GetOpenByPallet(_ context.Context, palletID kernel.UUID) (*machine.Assignment, error) {
	if a := r.db.openAssignmentOf(palletID); a != nil {
		return copyAssignment(a), nil
	}
	return nil, errs.NewObjectNotFoundError("assignment", palletID)
}

func (r assignmentRepo) GetLatestByPallet(ctx context.Context, palletID kernel.UUID) (*machine.Assignment, error) {
	if a := r.db.openAssignmentOf(palletID); a != nil {
		return copyAssignment(a), nil
	}
	var latest *machine.Assignment
	for _, a := range r.db.state.assignments {
		if a.PalletID().IsEqual(palletID) && (latest == nil || a.AssignedAt().After(latest.AssignedAt())) {
			latest = a
		}
	}
	if latest == nil {
		return nil, errs.NewObjectNotFoundError("assignment", palletID)
	}
	return copyAssignment(latest), nil
}

type cellRepo struct{ db *fakeDB }

func (r cellRepo) Add(ctx context.Context, c *buffer.Cell) error {
	r.db.state.cells[c.ID()] = cellRecord{name: c.Name(), capacity: c.Capacity()}
	return r.Update(ctx, c)
}

func (r cellRepo) Update(_ context.Context, c *buffer.Cell) error {
	rec, ok := r.db.state.cells[c.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("cell", c.ID())
	}
	for _, p := range append(c.Placements(), c.Removed()...) {
		r.db.state.placements[p.ID()] = copyPlacement(p)
	}
	rec.reserved = c.IsReserved()
	rec.load = c.Load()
	r.db.state.cells[c.ID()] = rec
	c.Synced()
	return nil
}

func (r cellRepo) GetForUpdate(_ context.Context, id kernel.UUID) (*buffer.Cell, error) {
	return r.db.cell(id)
}

func (r cellRepo) GetIDByPallet(_ context.Context, palletID kernel.UUID) (kernel.UUID, error) {
	if p := r.db.openPlacementOf(palletID); p != nil {
		return p.CellID(), nil
	}
	return kernel.UUID{}, errs.NewObjectNotFoundError("placement", palletID)
}

func (r cellRepo) ListForUpdate(_ context.Context) ([]*buffer.Cell, error) {
	ids := slices.Collect(maps.Keys(r.db.state.cells))
	slices.SortFunc(ids, func(a, b kernel.UUID) int {
		if a.Less(b) {
			return -1
		}
		return 1
	})
	out := make([]*buffer.Cell, 0, len(ids))
	for _, id := range ids {
		c, err := r.db.cell(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

type reclamationRepo struct{ db *fakeDB }

func (r reclamationRepo) Add(_ context.Context, rec *reclamation.Reclamation) error {
	r.db.state.reclamations[rec.ID()] = rec
	return nil
}

func (r reclamationRepo) SumByPart(_ context.Context, partID kernel.UUID) (kernel.Quantity, error) {
	total := kernel.ZeroQuantity()
	for _, rec := range r.db.state.reclamations {
		if rec.PartID().IsEqual(partID) {
			total = total.Add(rec.Quantity())
		}
	}
	return total, nil
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, evts ...events.Event) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// topics lists every published topic in publish order.
func (m *MockEventPublisher) topics() []string {
	var out []string
	for _, call := range m.Calls {
		for _, e := range call.Arguments.Get(1).([]events.Event) {
			out = append(out, e.Topic())
		}
	}
	return out
}

func (m *MockEventPublisher) reset() {
	m.Calls = nil
}

type MockPackagingQueue struct{ mock.Mock }

func (m *MockPackagingQueue) NotifyRoutingCompleted(ctx context.Context, partID kernel.UUID, at time.Time) error {
	args := m.Called(ctx, partID, at)
	return args.Error(0)
}

// world is one part on a route with routing stages followed by a final
// packaging stage, stored in an in-memory database.
type world struct {
	db        *fakeDB
	route     *route.Route
	stages    []*route.RouteStage
	part      *part.Part
	publisher *MockEventPublisher
	packaging *MockPackagingQueue
	notifier  *commands.Notifier
	factory   fakeFactory
}

func newWorld(t *testing.T, routingStages int) *world {
	t.Helper()
	db := &fakeDB{state: newState()}

	var stages []*route.RouteStage
	for i := 1; i <= routingStages+1; i++ {
		s, err := route.NewRouteStage(kernel.NewUUID(), i, kernel.NewUUID(), nil, "stage", i == routingStages+1)
		require.NoError(t, err)
		stages = append(stages, s)
	}
	r, err := route.NewRoute(kernel.NewUUID(), "route", stages)
	require.NoError(t, err)
	db.state.routes[r.ID()] = r

	p, err := part.NewPart(kernel.NewUUID(), "bracket", r.ID(), kernel.MustQuantity(1000))
	require.NoError(t, err)
	db.state.parts[p.ID()] = p

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	packaging := new(MockPackagingQueue)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &world{
		db:        db,
		route:     r,
		stages:    r.Stages(),
		part:      p,
		publisher: publisher,
		packaging: packaging,
		notifier:  commands.NewNotifier(publisher, packaging, logger),
		factory:   fakeFactory{db: db},
	}
}

// addMachine registers an active machine capable of the given stages.
func (w *world) addMachine(t *testing.T, status machine.Status, stages ...*route.RouteStage) *machine.Machine {
	t.Helper()
	caps := make([]kernel.UUID, 0, len(stages))
	for _, s := range stages {
		caps = append(caps, s.StageID())
	}
	m, err := machine.NewMachine(kernel.NewUUID(), "M-"+kernel.NewUUID().String()[:4], status, caps)
	require.NoError(t, err)
	w.db.state.machines[m.ID()] = m
	return m
}

// addPallet stores a pallet whose first completed stages are done and whose
// next stage row is NOT_PROCESSED.
func (w *world) addPallet(t *testing.T, quantity int64, completed int) *pallet.Pallet {
	t.Helper()
	number := 1
	for _, p := range w.db.state.pallets {
		if p.Number() >= number {
			number = p.Number() + 1
		}
	}
	p, err := pallet.NewPallet(kernel.NewUUID(), w.part.ID(), number, kernel.MustQuantity(quantity))
	require.NoError(t, err)
	w.db.state.pallets[p.ID()] = p

	at := time.Now().UTC()
	for i, s := range w.stages {
		status := progress.Completed
		var completedAt *time.Time
		if i < completed {
			completedAt = &at
		} else {
			status = progress.NotProcessed
		}
		row, err := progress.RestoreStageProgress(kernel.NewUUID(), p.ID(), s.ID(), status, completedAt)
		require.NoError(t, err)
		w.db.state.stageRows[row.ID()] = row
		if i >= completed {
			break
		}
	}
	return p
}

func (w *world) addCell(t *testing.T, capacity int) *buffer.Cell {
	t.Helper()
	c, err := buffer.NewCell(kernel.NewUUID(), "A-"+kernel.NewUUID().String()[:4], capacity)
	require.NoError(t, err)
	require.NoError(t, cellRepo{w.db}.Add(t.Context(), c))
	return c
}

// statusOf reads the stored status of the pallet's row for stage.
func (w *world) statusOf(palletID kernel.UUID, stage *route.RouteStage) progress.Status {
	for _, row := range w.db.rowsOf(palletID) {
		if row.RouteStageID().IsEqual(stage.ID()) {
			return row.Status()
		}
	}
	return progress.NotProcessed
}

func (w *world) storedPart() *part.Part {
	return w.db.state.parts[w.part.ID()]
}

func (w *world) storedQuantity(palletID kernel.UUID) string {
	p, ok := w.db.state.pallets[palletID]
	if !ok {
		return ""
	}
	return p.Quantity().String()
}

func (w *world) start(t *testing.T, p *pallet.Pallet, m *machine.Machine, mode machine.StationMode) (*machine.Assignment, error) {
	t.Helper()
	cmd, err := commands.NewStartProcessingCommand(p.ID(), m.ID(), mode)
	require.NoError(t, err)
	defer w.notifier.Flush()
	return commands.NewStartProcessingCommandHandler(w.factory, w.notifier).Handle(t.Context(), cmd)
}

func (w *world) complete(t *testing.T, p *pallet.Pallet, m *machine.Machine) error {
	t.Helper()
	cmd, err := commands.NewCompleteProcessingCommand(p.ID(), m.ID())
	require.NoError(t, err)
	defer w.notifier.Flush()
	return commands.NewCompleteProcessingCommandHandler(w.factory, w.notifier).Handle(t.Context(), cmd)
}

func (w *world) moveToBuffer(t *testing.T, p *pallet.Pallet, c *buffer.Cell) (*buffer.Placement, error) {
	t.Helper()
	cmd, err := commands.NewMoveToBufferCommand(p.ID(), c.ID())
	require.NoError(t, err)
	defer w.notifier.Flush()
	return commands.NewMoveToBufferCommandHandler(w.factory, w.notifier).Handle(t.Context(), cmd)
}

func (w *world) assign(t *testing.T, p *pallet.Pallet, m *machine.Machine) (*machine.Assignment, error) {
	t.Helper()
	cmd, err := commands.NewAssignPalletCommand(p.ID(), m.ID())
	require.NoError(t, err)
	defer w.notifier.Flush()
	return commands.NewAssignPalletCommandHandler(w.factory, w.notifier).Handle(t.Context(), cmd)
}

func requireRule(t *testing.T, err error, rule string) {
	t.Helper()
	require.Error(t, err)
	var rv *errs.RuleViolationError
	if errors.As(err, &rv) {
		require.Equal(t, rule, rv.Rule)
		return
	}
	var ce *errs.ConflictError
	require.True(t, errors.As(err, &ce), "unexpected error: %v", err)
	require.Equal(t, rule, ce.Reason)
}
