package layout

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Fruchterman-Reingold parameters.
const (
	springMaxIterations = 700
	springAttraction    = 0.75
	springRepulsion     = 0.75
	springEpsilon       = 1e-6
	springSize          = 1.0
)

// Spring is a Fruchterman-Reingold spring embedder in the unit square. Every
// run starts from a fresh seeded random placement, so prior positions are
// ignored. Alarms and situations are placed at the origin.
type Spring struct {
	seed          uint64
	maxIterations int
}

// NewSpring returns a spring embedder seeded with seed.
func NewSpring(seed uint64) *Spring {
	return &Spring{seed: seed, maxIterations: springMaxIterations}
}

// Name returns "spring".
func (s *Spring) Name() string { return NameSpring }

// Seed returns the placement seed.
func (s *Spring) Seed() uint64 { return s.seed }

// Apply implements [Strategy].
func (s *Spring) Apply(g *topology.Graph, st *topology.Store) {
	defer resetMarkers(st)

	ids := g.VertexIDs()
	if len(ids) == 0 {
		return
	}
	// Seeded draws are taken in id order, not insertion order.
	slices.Sort(ids)
	rng := newRand(s.seed)
	fr := newFR(g, ids, rng)
	for i := 0; i < s.maxIterations && !fr.cold(); i++ {
		fr.step(i, s.maxIterations)
	}
	for i, id := range ids {
		g.SetPosition(id, topology.Point{X: fr.pos[i].X, Y: fr.pos[i].Y})
	}
}

type frState struct {
	pos         []topology.Point
	disp        []topology.Point
	links       []link
	attraction  float64
	repulsion   float64
	temperature float64
	rng         *rand.Rand
}

func newFR(g *topology.Graph, ids []string, rng *rand.Rand) *frState {
	index := make(map[string]int, len(ids))
	pos := make([]topology.Point, len(ids))
	for i, id := range ids {
		index[id] = i
		pos[i] = topology.Point{X: rng.Float64() * springSize, Y: rng.Float64() * springSize}
	}
	var links []link
	for _, e := range g.LiveEdges() {
		if e.SourceID != e.TargetID {
			links = append(links, link{src: index[e.SourceID], tgt: index[e.TargetID]})
		}
	}
	k := math.Sqrt(springSize * springSize / float64(len(ids)))
	return &frState{
		pos:         pos,
		disp:        make([]topology.Point, len(ids)),
		links:       links,
		attraction:  springAttraction * k,
		repulsion:   springRepulsion * k,
		temperature: springSize / 10,
		rng:         rng,
	}
}

func (f *frState) cold() bool { return f.temperature < springEpsilon }

func (f *frState) step(iter, maxIter int) {
	for i := range f.pos {
		f.disp[i] = topology.Point{}
		for j := range f.pos {
			if i == j {
				continue
			}
			dx, dy := f.pos[i].X-f.pos[j].X, f.pos[i].Y-f.pos[j].Y
			d := max(springEpsilon, math.Hypot(dx, dy))
			force := f.repulsion * f.repulsion / d
			f.disp[i].X += dx / d * force
			f.disp[i].Y += dy / d * force
		}
	}

	for _, l := range f.links {
		dx, dy := f.pos[l.src].X-f.pos[l.tgt].X, f.pos[l.src].Y-f.pos[l.tgt].Y
		d := max(springEpsilon, math.Hypot(dx, dy))
		force := d * d / f.attraction
		fx, fy := dx/d*force, dy/d*force
		f.disp[l.src].X -= fx
		f.disp[l.src].Y -= fy
		f.disp[l.tgt].X += fx
		f.disp[l.tgt].Y += fy
	}

	border := springSize / 50
	for i := range f.pos {
		d := max(springEpsilon, math.Hypot(f.disp[i].X, f.disp[i].Y))
		step := min(d, f.temperature)
		f.pos[i].X = f.clamp(f.pos[i].X+f.disp[i].X/d*step, border)
		f.pos[i].Y = f.clamp(f.pos[i].Y+f.disp[i].Y/d*step, border)
	}

	f.temperature *= 1 - float64(iter)/float64(maxIter)
}

// clamp keeps v inside the frame, bouncing points that cross the border back
// in by a random amount.
func (f *frState) clamp(v, border float64) float64 {
	switch {
	case v < border:
		return border + f.rng.Float64()*border*2
	case v > springSize-border:
		return springSize - border - f.rng.Float64()*border*2
	}
	return v
}
