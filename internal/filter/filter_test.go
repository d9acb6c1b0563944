package filter

import (
	"context"
	"sync"
	"testing"

	"piccolo/internal/artifact"
	"piccolo/internal/signal"
	"piccolo/internal/statemachine"
	"piccolo/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTrigger struct {
	mu    sync.Mutex
	fired []string
}

func (r *recordingTrigger) Trigger(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, name)
	return nil
}

func (r *recordingTrigger) firedNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.fired))
	copy(out, r.fired)
	return out
}

func newTestEngine(trigger Trigger) *Engine {
	m := statemachine.New(store.NewMemory(), statemachine.NewMetrics(prometheus.NewRegistry()))
	seq := 0
	return New(m, trigger, signal.NewTypeRegistry(), func() string {
		seq++
		return "t" + string(rune('0'+seq))
	}, func() int64 { return 0 })
}

func scenarioWithCondition(express artifact.Express, value string) *artifact.Scenario {
	return &artifact.Scenario{
		Name:   "hello",
		Action: artifact.ActionLaunch,
		Target: "hello-package",
		Condition: &artifact.Condition{
			Express: express,
			Value:   value,
			Operand: artifact.Operand{Name: "temperature", Value: "vehicle/engine/temp", Type: "DDS"},
		},
	}
}

func TestEngine_LaunchUnconditionalFiresImmediately(t *testing.T) {
	trigger := &recordingTrigger{}
	e := newTestEngine(trigger)
	s := &artifact.Scenario{Name: "always-on", Action: artifact.ActionLaunch, Target: "p"}

	require.NoError(t, e.Launch(context.Background(), s))
	assert.Equal(t, []string{"always-on"}, trigger.firedNames())
	assert.Empty(t, e.filters)
}

func TestEngine_LaunchDeduplicatesByScenarioName(t *testing.T) {
	trigger := &recordingTrigger{}
	e := newTestEngine(trigger)
	s := scenarioWithCondition(artifact.ExpressGe, "80")

	require.NoError(t, e.Launch(context.Background(), s))
	require.NoError(t, e.Launch(context.Background(), s))
	assert.Len(t, e.filters, 1)
}

func TestEngine_DispatchFiresOnHeldCondition(t *testing.T) {
	trigger := &recordingTrigger{}
	e := newTestEngine(trigger)
	s := scenarioWithCondition(artifact.ExpressGe, "80")
	require.NoError(t, e.Launch(context.Background(), s))

	e.Dispatch(context.Background(), "", "vehicle/engine/temp", []byte(`{"value":"87","fields":{"temperature":"87"}}`))
	assert.Equal(t, []string{"hello"}, trigger.firedNames())
}

func TestEngine_DispatchSkipsWhenConditionNotMet(t *testing.T) {
	trigger := &recordingTrigger{}
	e := newTestEngine(trigger)
	s := scenarioWithCondition(artifact.ExpressGe, "80")
	require.NoError(t, e.Launch(context.Background(), s))

	e.Dispatch(context.Background(), "", "vehicle/engine/temp", []byte(`{"value":"20","fields":{"temperature":"20"}}`))
	assert.Empty(t, trigger.firedNames())
}

func TestEngine_DispatchSkipsTopicMismatch(t *testing.T) {
	trigger := &recordingTrigger{}
	e := newTestEngine(trigger)
	s := scenarioWithCondition(artifact.ExpressGe, "80")
	require.NoError(t, e.Launch(context.Background(), s))

	e.Dispatch(context.Background(), "", "vehicle/other/topic", []byte(`{"value":"200","fields":{"temperature":"200"}}`))
	assert.Empty(t, trigger.firedNames())
}

func TestEngine_DispatchMissingFieldDoesNotFire(t *testing.T) {
	trigger := &recordingTrigger{}
	e := newTestEngine(trigger)
	s := scenarioWithCondition(artifact.ExpressGe, "80")
	require.NoError(t, e.Launch(context.Background(), s))

	e.Dispatch(context.Background(), "", "vehicle/engine/temp", []byte(`{"value":"87","fields":{}}`))
	assert.Empty(t, trigger.firedNames())
}

func TestEngine_DispatchRemainsActiveAfterFiring(t *testing.T) {
	trigger := &recordingTrigger{}
	e := newTestEngine(trigger)
	s := scenarioWithCondition(artifact.ExpressEq, "hot")
	require.NoError(t, e.Launch(context.Background(), s))

	e.Dispatch(context.Background(), "", "vehicle/engine/temp", []byte(`{"value":"hot","fields":{"temperature":"HOT"}}`))
	e.Dispatch(context.Background(), "", "vehicle/engine/temp", []byte(`{"value":"hot","fields":{"temperature":"hot"}}`))
	assert.Len(t, trigger.firedNames(), 2)
}

func TestEngine_PauseStopsDispatch(t *testing.T) {
	trigger := &recordingTrigger{}
	e := newTestEngine(trigger)
	s := scenarioWithCondition(artifact.ExpressGe, "80")
	require.NoError(t, e.Launch(context.Background(), s))
	e.Pause(s.Name)

	e.Dispatch(context.Background(), "", "vehicle/engine/temp", []byte(`{"value":"90","fields":{"temperature":"90"}}`))
	assert.Empty(t, trigger.firedNames())

	e.Resume(s.Name)
	e.Dispatch(context.Background(), "", "vehicle/engine/temp", []byte(`{"value":"90","fields":{"temperature":"90"}}`))
	assert.Equal(t, []string{"hello"}, trigger.firedNames())
}

func TestEngine_RemoveIsIdempotent(t *testing.T) {
	e := newTestEngine(&recordingTrigger{})
	e.Remove("never-existed")
	e.Remove("never-existed")
}
