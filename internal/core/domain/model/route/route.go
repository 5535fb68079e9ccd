package route

import (
	"errors"
	"fmt"
	"slices"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")

// Route is the ordered, acyclic sequence of stages a part must pass through.
// It is read-only to the routing engine: stages are fixed when a part is created
// against the route.
type Route struct {
	id     kernel.UUID
	name   string
	stages []*RouteStage

	guard guard.ConstructorGuard
}

// NewRoute builds a route from its stages. Stages are sorted by sequence number;
// sequence numbers must be unique and at least one stage is required.
func NewRoute(id kernel.UUID, name string, stages []*RouteStage) (*Route, error) {
	r := &Route{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setStages(stages),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Route) Validate() error {
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

func (r *Route) ID() kernel.UUID {
	return r.id
}

func (r *Route) Name() string {
	return r.name
}

// Stages returns the stages in sequence order.
func (r *Route) Stages() []*RouteStage {
	return slices.Clone(r.stages)
}

// RoutingStages returns the stages that are not final (packaging) stages.
func (r *Route) RoutingStages() []*RouteStage {
	out := make([]*RouteStage, 0, len(r.stages))
	for _, s := range r.stages {
		if !s.IsFinal() {
			out = append(out, s)
		}
	}
	return out
}

// Stage looks up a route stage by ID.
func (r *Route) Stage(id kernel.UUID) (*RouteStage, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("routeStage", id.String())
	}
	return r.stages[idx], nil
}

func (r *Route) First() *RouteStage {
	return r.stages[0]
}

// IsFirst reports whether id is the first stage by sequence number.
func (r *Route) IsFirst(id kernel.UUID) bool {
	return r.stages[0].ID().IsEqual(id)
}

// Previous returns the stage immediately preceding id, or false for the first stage.
func (r *Route) Previous(id kernel.UUID) (*RouteStage, bool) {
	idx := r.indexOf(id)
	if idx <= 0 {
		return nil, false
	}
	return r.stages[idx-1], true
}

// Next returns the stage immediately following id, or false for the last stage.
func (r *Route) Next(id kernel.UUID) (*RouteStage, bool) {
	idx := r.indexOf(id)
	if idx < 0 || idx == len(r.stages)-1 {
		return nil, false
	}
	return r.stages[idx+1], true
}

// LastRoutingStage is the last non-final stage. When every stage is final the
// last stage is returned.
func (r *Route) LastRoutingStage() *RouteStage {
	for i := len(r.stages) - 1; i >= 0; i-- {
		if !r.stages[i].IsFinal() {
			return r.stages[i]
		}
	}
	return r.stages[len(r.stages)-1]
}

func (r *Route) indexOf(id kernel.UUID) int {
	return slices.IndexFunc(r.stages, func(s *RouteStage) bool {
		return s.ID().IsEqual(id)
	})
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

func (r *Route) setStages(stages []*RouteStage) error {
	if len(stages) == 0 {
		return errs.NewValueIsRequiredError("stages")
	}

	for _, s := range stages {
		if s == nil {
			return errs.NewValueIsRequiredError("stage")
		}
		if err := s.Validate(); err != nil {
			return err
		}
	}

	sorted := slices.Clone(stages)
	slices.SortFunc(sorted, func(a, b *RouteStage) int {
		return a.SequenceNumber() - b.SequenceNumber()
	})

	for i, s := range sorted {
		if i > 0 && sorted[i-1].SequenceNumber() == s.SequenceNumber() {
			return errs.NewValueIsInvalidErrorWithCause(
				"stages",
				fmt.Errorf("duplicate sequence number %d", s.SequenceNumber()),
			)
		}
	}

	r.stages = sorted
	return nil
}
