package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Run hooks
	r := NoopRunHooks{}
	r.OnFormatStart(ctx, "graph.txt")
	r.OnFormatComplete(ctx, "graph.txt", 100, 250, time.Second, nil)
	r.OnClusterStart(ctx, "graph.txt", 12345, 0.0)
	r.OnClusterComplete(ctx, "graph.txt", time.Second, nil)
	r.OnRemapStart(ctx, "graph.txt")
	r.OnRemapComplete(ctx, "graph.txt", 7, time.Second, nil)

	// Scratch hooks
	s := NoopScratchHooks{}
	s.OnCreate("/tmp/gcm_cache_abc")
	s.OnRemove("/tmp/gcm_cache_abc", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Run().(NoopRunHooks); !ok {
		t.Error("Run() should return NoopRunHooks by default")
	}
	if _, ok := Scratch().(NoopScratchHooks); !ok {
		t.Error("Scratch() should return NoopScratchHooks by default")
	}

	// Set custom hooks
	customRun := &testRunHooks{}
	SetRunHooks(customRun)
	if Run() != customRun {
		t.Error("SetRunHooks should set custom hooks")
	}

	customScratch := &testScratchHooks{}
	SetScratchHooks(customScratch)
	if Scratch() != customScratch {
		t.Error("SetScratchHooks should set custom hooks")
	}

	// Nil is ignored
	SetRunHooks(nil)
	if Run() != customRun {
		t.Error("SetRunHooks(nil) should be ignored")
	}

	// Reset restores noop defaults
	Reset()
	if _, ok := Run().(NoopRunHooks); !ok {
		t.Error("Reset() should restore NoopRunHooks")
	}
	if _, ok := Scratch().(NoopScratchHooks); !ok {
		t.Error("Reset() should restore NoopScratchHooks")
	}
}

type testRunHooks struct {
	NoopRunHooks
	clusterStarts int
}

func (h *testRunHooks) OnClusterStart(ctx context.Context, input string, seed int64, chi float64) {
	h.clusterStarts++
}

type testScratchHooks struct {
	NoopScratchHooks
	creates int
}

func (h *testScratchHooks) OnCreate(path string) {
	h.creates++
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	hooks := &testRunHooks{}
	SetRunHooks(hooks)

	Run().OnClusterStart(context.Background(), "graph.txt", 12345, 0.0)
	Run().OnClusterStart(context.Background(), "graph.txt", 12345, 0.0)

	if hooks.clusterStarts != 2 {
		t.Errorf("clusterStarts = %d, want 2", hooks.clusterStarts)
	}
}
