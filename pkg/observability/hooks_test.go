package observability

import (
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	h := Noop()

	h.Sync.OnApply("vertex.upsert", true)
	h.Sync.OnMerge(3, 1, time.Millisecond)
	h.Sync.OnEdgeDropped("e1")
	h.Sync.OnSize(5, 4, 2, 1)

	h.Layout.OnLayoutStart("force", 10)
	h.Layout.OnLayoutComplete("force", time.Second)

	h.Cache.OnCacheHit("layout")
	h.Cache.OnCacheMiss("layout")
	h.Cache.OnCacheSet("layout", 1024)

	h.Dispatch.OnPublish("VertexUpserted")
	h.Dispatch.OnDrain(7, time.Millisecond)
}

func TestWithDefaults(t *testing.T) {
	custom := &testLayoutHooks{}
	h := Hooks{Layout: custom}.WithDefaults()

	if _, ok := h.Sync.(NoopSyncHooks); !ok {
		t.Error("WithDefaults() should fill Sync with NoopSyncHooks")
	}
	if _, ok := h.Cache.(NoopCacheHooks); !ok {
		t.Error("WithDefaults() should fill Cache with NoopCacheHooks")
	}
	if _, ok := h.Dispatch.(NoopDispatchHooks); !ok {
		t.Error("WithDefaults() should fill Dispatch with NoopDispatchHooks")
	}
	if h.Layout != custom {
		t.Error("WithDefaults() should keep custom Layout hooks")
	}

	h.Layout.OnLayoutStart("spring", 3)
	if custom.started != 1 {
		t.Errorf("started = %d, want 1", custom.started)
	}
}

type testLayoutHooks struct {
	NoopLayoutHooks
	started int
}

func (h *testLayoutHooks) OnLayoutStart(string, int) { h.started++ }
