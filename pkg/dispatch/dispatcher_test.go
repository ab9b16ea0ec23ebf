package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/arnet/pkg/topology"
)

func v(id string) topology.Vertex { return topology.Vertex{ID: id} }

func TestKindPriority(t *testing.T) {
	tests := []struct {
		c    Change
		want int
	}{
		{VertexUpserted{}, PriorityUpsert},
		{EdgeUpserted{}, PriorityUpsert},
		{AlarmUpserted{}, PriorityUpsert},
		{SituationUpserted{}, PriorityUpsert},
		{EventReceived{}, PriorityUpsert},
		{VertexRemoved{}, PriorityRemove},
		{EdgeRemoved{}, PriorityRemove},
		{AlarmRemoved{}, PriorityRemove},
		{SituationRemoved{}, PriorityRemove},
		{LayoutRecalculated{}, PriorityLayout},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.Kind().Priority(), tt.c.Kind().String())
	}
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestDrainPriorityOrder(t *testing.T) {
	d := New(nil)
	d.Publish(LayoutRecalculated{Strategy: "first"})
	d.Publish(VertexRemoved{Vertex: v("r1")})
	d.Publish(VertexUpserted{Vertex: v("a1")})
	d.Publish(LayoutRecalculated{Strategy: "second"})
	d.Publish(EdgeRemoved{Edge: topology.Edge{ID: "r2"}})
	d.Publish(AlarmUpserted{Alarm: topology.Alarm{ReductionKey: "a2"}})
	d.Publish(VertexUpserted{Vertex: v("a3")})

	got := d.Drain()
	want := []Change{
		VertexUpserted{Vertex: v("a1")},
		AlarmUpserted{Alarm: topology.Alarm{ReductionKey: "a2"}},
		VertexUpserted{Vertex: v("a3")},
		VertexRemoved{Vertex: v("r1")},
		EdgeRemoved{Edge: topology.Edge{ID: "r2"}},
		LayoutRecalculated{Strategy: "first"},
		LayoutRecalculated{Strategy: "second"},
	}
	assert.Equal(t, want, got)
	assert.Nil(t, d.Drain(), "second drain should be empty")
	assert.Equal(t, 0, d.Len())
}

type recorder struct {
	NopObserver
	log []string
}

func (r *recorder) OnVertexUpserted(v topology.Vertex) { r.log = append(r.log, "+v:"+v.ID) }
func (r *recorder) OnVertexRemoved(v topology.Vertex)  { r.log = append(r.log, "-v:"+v.ID) }
func (r *recorder) OnEvent(e topology.Event)           { r.log = append(r.log, "ev:"+e.UEI) }
func (r *recorder) OnLayoutRecalculated(lr LayoutRecalculated) {
	r.log = append(r.log, "layout:"+lr.Strategy)
}

func TestDispatch(t *testing.T) {
	d := New(nil)
	d.Publish(LayoutRecalculated{Strategy: "force"})
	d.Publish(VertexRemoved{Vertex: v("b")})
	d.Publish(EventReceived{Event: topology.Event{UEI: "uei.test"}})
	d.Publish(VertexUpserted{Vertex: v("a")})
	d.Publish(EdgeUpserted{Edge: topology.Edge{ID: "ignored"}})

	r := &recorder{}
	n := d.Dispatch(r)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"ev:uei.test", "+v:a", "-v:b", "layout:force"}, r.log)
	assert.Equal(t, 0, d.Dispatch(r))
}

func TestNewLayoutRecalculatedCopies(t *testing.T) {
	g := topology.NewGraph()
	require.NoError(t, g.AddVertex(v("a")))
	lr := NewLayoutRecalculated("force", g, topology.NewStore())

	g.SetPosition("a", topology.Point{X: 1})
	assert.Equal(t, topology.Origin, lr.Vertices["a"])

	clone := lr.Clone()
	clone.Vertices["a"] = topology.Point{X: 2}
	assert.Equal(t, topology.Origin, lr.Vertices["a"])
}

func TestConcurrentPublish(t *testing.T) {
	d := New(nil)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if i%2 == 0 {
					d.Publish(VertexUpserted{})
				} else {
					d.Publish(VertexRemoved{})
				}
			}
		}()
	}

	total := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		batch := d.Drain()
		for i := 1; i < len(batch); i++ {
			require.LessOrEqual(t, batch[i-1].Kind().Priority(), batch[i].Kind().Priority())
		}
		total += len(batch)
		select {
		case <-done:
			total += len(d.Drain())
			assert.Equal(t, 800, total)
			return
		default:
		}
	}
}

func TestRun(t *testing.T) {
	d := New(nil)
	d.Publish(VertexUpserted{Vertex: v("a")})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := &recorder{}
	err := d.Run(ctx, 5*time.Millisecond, r)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"+v:a"}, r.log)
}
