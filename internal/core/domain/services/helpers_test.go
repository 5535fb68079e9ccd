package services_test

import (
	"testing"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/part"
	"production/internal/core/domain/model/progress"
	"production/internal/core/domain/model/route"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	route  *route.Route
	stages []*route.RouteStage
	part   *part.Part
}

// newFixture builds a part on a route with n routing stages and a final packaging stage.
func newFixture(t *testing.T, n int) fixture {
	t.Helper()
	var stages []*route.RouteStage
	for i := 1; i <= n+1; i++ {
		s, err := route.NewRouteStage(kernel.NewUUID(), i, kernel.NewUUID(), nil, "stage", i == n+1)
		require.NoError(t, err)
		stages = append(stages, s)
	}
	r, err := route.NewRoute(kernel.NewUUID(), "route", stages)
	require.NoError(t, err)
	p, err := part.NewPart(kernel.NewUUID(), "part", r.ID(), kernel.MustQuantity(1000))
	require.NoError(t, err)
	return fixture{route: r, stages: r.Stages(), part: p}
}

func (f fixture) tracker(t *testing.T) *progress.Tracker {
	t.Helper()
	tr, err := progress.NewTracker(f.route, kernel.NewUUID(), nil)
	require.NoError(t, err)
	return tr
}

func capableMachine(t *testing.T, stages ...*route.RouteStage) *machine.Machine {
	t.Helper()
	caps := make([]kernel.UUID, 0, len(stages))
	for _, s := range stages {
		caps = append(caps, s.StageID())
	}
	m, err := machine.NewMachine(kernel.NewUUID(), "M-"+kernel.NewUUID().String()[:4], machine.Active, caps)
	require.NoError(t, err)
	return m
}
