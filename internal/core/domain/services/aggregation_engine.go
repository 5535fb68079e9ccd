package services

import (
	"fmt"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/part"
	"production/internal/core/domain/model/progress"
	"production/internal/core/domain/model/route"
	"production/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Aggregate is the result of recomputing a part from its pallets.
type Aggregate struct {
	// Stages holds one row per route stage, in route order.
	Stages []*progress.PartRouteProgress
	// Added and Changed are the subsets of Stages that need persisting.
	Added   []*progress.PartRouteProgress
	Changed []*progress.PartRouteProgress
	// PartStatusChanged reports a forward move of the part status.
	PartStatusChanged bool
	// RoutingCompleted is true when every pallet has completed every non-final stage.
	RoutingCompleted bool
	// RoutingJustCompleted is RoutingCompleted becoming true on this recompute.
	RoutingJustCompleted bool
	// CompletionPercent is the quantity-weighted share of completed pallet stages,
	// rounded to two places.
	CompletionPercent decimal.Decimal
}

// Dirty reports whether anything needs to be written.
func (a Aggregate) Dirty() bool {
	return a.PartStatusChanged || len(a.Added) > 0 || len(a.Changed) > 0
}

// PalletState is one pallet of the part as seen by the aggregation engine.
type PalletState struct {
	Quantity kernel.Quantity
	Progress *progress.Tracker
}

// AggregationEngine rolls pallet progress up into PartRouteProgress and part status.
// It only ever reads pallet rows; it never writes them.
type AggregationEngine struct{}

func NewAggregationEngine() AggregationEngine {
	return AggregationEngine{}
}

// Recompute derives every stage aggregate of p from its current pallets.
//
// A stage is COMPLETED when every pallet has completed it, IN_PROGRESS when any
// pallet has started or completed it, PENDING when any pallet is waiting for it,
// and NOT_PROCESSED otherwise. A part without pallets keeps its aggregates.
// The part status only ever moves forward.
func (AggregationEngine) Recompute(
	p *part.Part,
	r *route.Route,
	pallets []PalletState,
	existing []*progress.PartRouteProgress,
	at time.Time,
) (Aggregate, error) {
	if err := p.Validate(); err != nil {
		return Aggregate{}, err
	}
	if !p.RouteID().IsEqual(r.ID()) {
		return Aggregate{}, errs.NewValueIsInvalidErrorWithCause("route",
			fmt.Errorf("part %s is routed along %s, got %s", p.ID(), p.RouteID(), r.ID()))
	}

	byStage := make(map[kernel.UUID]*progress.PartRouteProgress, len(existing))
	for _, row := range existing {
		if !row.PartID().IsEqual(p.ID()) {
			return Aggregate{}, errs.NewValueIsInvalidErrorWithCause("partRouteProgress",
				fmt.Errorf("row %s belongs to part %s", row.ID(), row.PartID()))
		}
		byStage[row.RouteStageID()] = row
	}

	var agg Aggregate
	if len(pallets) == 0 {
		for _, s := range r.Stages() {
			if row, ok := byStage[s.ID()]; ok {
				agg.Stages = append(agg.Stages, row)
			}
		}
		agg.CompletionPercent = decimal.Zero
		if p.Status() == part.Completed {
			agg.CompletionPercent = hundred
		}
		return agg, nil
	}

	wasRoutingCompleted := true
	for _, s := range r.RoutingStages() {
		if row, ok := byStage[s.ID()]; !ok || row.Status() != progress.Completed {
			wasRoutingCompleted = false
		}
	}

	allCompleted := true
	anyTouched := false
	routingCompleted := true

	for _, s := range r.Stages() {
		status := stageStatus(s.ID(), pallets)
		if status != progress.NotProcessed {
			anyTouched = true
		}
		if status != progress.Completed {
			allCompleted = false
			if !s.IsFinal() {
				routingCompleted = false
			}
		}

		row, ok := byStage[s.ID()]
		if !ok {
			created, err := progress.NewPartRouteProgress(kernel.NewUUID(), p.ID(), s.ID())
			if err != nil {
				return Aggregate{}, err
			}
			if _, err := created.Apply(status, at); err != nil {
				return Aggregate{}, err
			}
			agg.Added = append(agg.Added, created)
			agg.Stages = append(agg.Stages, created)
			continue
		}

		changed, err := row.Apply(status, at)
		if err != nil {
			return Aggregate{}, err
		}
		if changed {
			agg.Changed = append(agg.Changed, row)
		}
		agg.Stages = append(agg.Stages, row)
	}

	if anyTouched && p.Start() {
		agg.PartStatusChanged = true
	}
	if allCompleted && p.Complete() {
		agg.PartStatusChanged = true
	}

	agg.RoutingCompleted = routingCompleted
	agg.RoutingJustCompleted = routingCompleted && !wasRoutingCompleted
	agg.CompletionPercent = completionPercent(r, pallets)
	return agg, nil
}

func stageStatus(routeStageID kernel.UUID, pallets []PalletState) progress.Status {
	completed, started, pending := 0, false, false
	for _, pl := range pallets {
		switch pl.Progress.StatusOf(routeStageID) {
		case progress.Completed:
			completed++
			started = true
		case progress.InProgress:
			started = true
		case progress.Pending:
			pending = true
		}
	}

	switch {
	case completed == len(pallets):
		return progress.Completed
	case started:
		return progress.InProgress
	case pending:
		return progress.Pending
	default:
		return progress.NotProcessed
	}
}

func completionPercent(r *route.Route, pallets []PalletState) decimal.Decimal {
	stages := r.Stages()
	total := decimal.Zero
	done := decimal.Zero
	for _, pl := range pallets {
		q := pl.Quantity.Decimal()
		total = total.Add(q.Mul(decimal.NewFromInt(int64(len(stages)))))
		for _, s := range stages {
			if pl.Progress.StatusOf(s.ID()) == progress.Completed {
				done = done.Add(q)
			}
		}
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return done.Div(total).Mul(hundred).Round(2)
}
