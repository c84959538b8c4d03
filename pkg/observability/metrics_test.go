package observability

import (
	"context"
	"testing"
	"time"

	"github.com/kilnbuild/kiln/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksFeedCollectors(t *testing.T) {
	m := NewMetrics()
	hooks := m.Hooks()

	hooks.OnStageEnd(context.Background(), &domain.StageEvent{Stage: "build", Duration: time.Second})
	hooks.OnStepEnd(context.Background(), &domain.StepEvent{Kind: "run"})
	hooks.OnStepEnd(context.Background(), &domain.StepEvent{Kind: "run", Err: assert.AnError})

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["kiln_stage_duration_seconds"])
	assert.True(t, names["kiln_steps_total"])
}

func TestObserveRequest(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("GET", 200, 5*time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "kiln_http_requests_total" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, float64(1), f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}
