package domain

import (
	"context"
	"time"
)

// StageEvent describes a stage entering or leaving execution.
type StageEvent struct {
	Stage    string
	Index    int
	Duration time.Duration
	Err      error
}

// StepEvent describes a single recipe step.
type StepEvent struct {
	Stage    string
	Kind     string
	Index    int
	Duration time.Duration
	Err      error
}

// LifecycleHooks lets hosts observe pipeline execution without coupling the
// engine to any logging or metrics backend. All hooks are optional; nil
// hooks are skipped. Hooks run synchronously on the engine goroutine, so
// they should be cheap.
type LifecycleHooks struct {
	OnStageStart func(ctx context.Context, e *StageEvent)
	OnStageEnd   func(ctx context.Context, e *StageEvent)
	OnStepStart  func(ctx context.Context, e *StepEvent)
	OnStepEnd    func(ctx context.Context, e *StepEvent)
}

// Merge combines two hook sets; both are invoked, receiver first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStageStart: mergeStageHook(h.OnStageStart, other.OnStageStart),
		OnStageEnd:   mergeStageHook(h.OnStageEnd, other.OnStageEnd),
		OnStepStart:  mergeStepHook(h.OnStepStart, other.OnStepStart),
		OnStepEnd:    mergeStepHook(h.OnStepEnd, other.OnStepEnd),
	}
}

func mergeStageHook(a, b func(context.Context, *StageEvent)) func(context.Context, *StageEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StageEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func mergeStepHook(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
