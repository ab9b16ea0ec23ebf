package layout

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Force simulation constants.
const (
	linkDistance  = 3.0
	linkStrength  = 2.0
	defaultCharge = -30.0
	gravity       = 0.1
	friction      = 0.9
	initialAlpha  = 0.1
	alphaDecay    = 0.99
	minAlpha      = 0.005
	outputScale   = 1.0 / 100

	// The simulation frame is the unit square; gravity pulls toward its center.
	frameCenter = 0.5
)

// ForceOption configures a [Force] strategy.
type ForceOption func(*Force)

// WithCharge overrides the per-vertex charge. Negative values repel.
func WithCharge(c float64) ForceOption {
	return func(f *Force) { f.charge = c }
}

// Force is a D3-style force-directed layout. It starts from the positions
// already stored in the graph, so vertices that survive a topology change stay
// near where they were.
//
// After the simulation the vertex with the most distinct neighbors (smallest
// id on ties) is moved to the origin and all coordinates are scaled by 1/100.
// Alarms and situations are placed at the origin.
type Force struct {
	seed   uint64
	charge float64
}

// NewForce returns a force-directed strategy seeded with seed.
func NewForce(seed uint64, opts ...ForceOption) *Force {
	f := &Force{seed: seed, charge: defaultCharge}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns "force".
func (f *Force) Name() string { return NameForce }

// Seed returns the jitter seed.
func (f *Force) Seed() uint64 { return f.seed }

// Apply implements [Strategy].
func (f *Force) Apply(g *topology.Graph, s *topology.Store) {
	sim := newSimulation(g, f.charge, newRand(f.seed))
	for !sim.done() {
		sim.step()
	}

	var offset topology.Point
	if anchor, ok := mostConnected(g); ok {
		b := sim.bodies[sim.index[anchor]]
		offset = topology.Point{X: -b.x, Y: -b.y}
	}
	for _, b := range sim.bodies {
		g.SetPosition(b.id, topology.Point{
			X: (b.x + offset.X) * outputScale,
			Y: (b.y + offset.Y) * outputScale,
		})
	}
	resetMarkers(s)
}

// mostConnected returns the vertex with the most distinct neighbors, breaking
// ties by the smallest id.
func mostConnected(g *topology.Graph) (string, bool) {
	ids := g.VertexIDs()
	if len(ids) == 0 {
		return "", false
	}
	slices.Sort(ids)
	best, bestCount := ids[0], g.NeighborCount(ids[0])
	for _, id := range ids[1:] {
		if n := g.NeighborCount(id); n > bestCount {
			best, bestCount = id, n
		}
	}
	return best, true
}

type body struct {
	id     string
	x, y   float64
	px, py float64
	weight float64
}

type link struct{ src, tgt int }

// simulation holds the working state of one Force run. Bodies are indexed by
// sorted vertex id so that insertion order never affects the result; links
// follow edge insertion order and cover live edges only.
type simulation struct {
	bodies []body
	index  map[string]int
	links  []link
	alpha  float64
	charge float64
	rng    *rand.Rand
	steps  int
}

func newSimulation(g *topology.Graph, charge float64, rng *rand.Rand) *simulation {
	ids := g.VertexIDs()
	slices.Sort(ids)
	sim := &simulation{
		bodies: make([]body, len(ids)),
		index:  make(map[string]int, len(ids)),
		alpha:  initialAlpha,
		charge: charge,
		rng:    rng,
	}
	for i, id := range ids {
		p, _ := g.Position(id)
		sim.bodies[i] = body{id: id, x: p.X, y: p.Y, px: p.X, py: p.Y, weight: 1}
		sim.index[id] = i
	}
	for _, e := range g.LiveEdges() {
		l := link{src: sim.index[e.SourceID], tgt: sim.index[e.TargetID]}
		sim.bodies[l.src].weight++
		sim.bodies[l.tgt].weight++
		sim.links = append(sim.links, l)
	}
	return sim
}

func (s *simulation) done() bool {
	return (len(s.bodies) == 0 && len(s.links) == 0) || s.alpha < minAlpha
}

func (s *simulation) step() {
	s.relaxLinks()
	s.applyGravity()
	s.applyCharge()
	s.integrate()
	s.alpha *= alphaDecay
	s.steps++
}

// relaxLinks pulls each linked pair toward the rest length. Corrections are
// applied edge by edge so later edges see earlier moves.
func (s *simulation) relaxLinks() {
	for _, l := range s.links {
		src, tgt := &s.bodies[l.src], &s.bodies[l.tgt]
		dx, dy := tgt.x-src.x, tgt.y-src.y
		d2 := dx*dx + dy*dy
		if d2 == 0 {
			continue
		}
		d := math.Sqrt(d2)
		k := s.alpha * linkStrength * (d - linkDistance) / d
		dx, dy = dx*k, dy*k

		share := src.weight / (src.weight + tgt.weight)
		tgt.x -= dx * share
		tgt.y -= dy * share
		src.x += dx * (1 - share)
		src.y += dy * (1 - share)
	}
}

func (s *simulation) applyGravity() {
	k := s.alpha * gravity
	if k == 0 {
		return
	}
	for i := range s.bodies {
		b := &s.bodies[i]
		b.x += (frameCenter - b.x) * k
		b.y += (frameCenter - b.y) * k
	}
}

// applyCharge repels every ordered pair of distinct bodies. Coincident pairs
// are both nudged by seeded jitter instead.
func (s *simulation) applyCharge() {
	if s.charge == 0 {
		return
	}
	for i := range s.bodies {
		b1 := &s.bodies[i]
		for j := range s.bodies {
			if i == j {
				continue
			}
			b2 := &s.bodies[j]
			dx, dy := b2.x-b1.x, b2.y-b1.y
			d2 := dx*dx + dy*dy
			if d2 > 0 {
				k := s.alpha * s.charge / d2
				b1.x += dx * k
				b1.y += dy * k
				continue
			}
			b1.x += 0.5 - s.rng.Float64()
			b1.y += 0.5 - s.rng.Float64()
			b2.x += 0.5 - s.rng.Float64()
			b2.y += 0.5 - s.rng.Float64()
		}
	}
}

func (s *simulation) integrate() {
	for i := range s.bodies {
		b := &s.bodies[i]
		x, y := b.x, b.y
		b.x += (b.px - b.x) * friction
		b.y += (b.py - b.y) * friction
		b.px, b.py = x, y
	}
}
