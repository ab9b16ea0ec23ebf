package layout

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Strategy names accepted by [New].
const (
	NameForce    = "force"
	NameSpring   = "spring"
	NameDiagonal = "diagonal"
)

// ErrUnknownStrategy is returned by [New] for an unregistered name.
var ErrUnknownStrategy = errors.New("unknown layout strategy")

// Strategy assigns positions to every vertex, alarm and situation.
//
// Apply runs synchronously and must be called with exclusive access to both g
// and s. A nil s is treated as an empty store.
type Strategy interface {
	Name() string
	Apply(g *topology.Graph, s *topology.Store)
}

// Seeded is implemented by strategies that draw from a seeded random source.
type Seeded interface {
	Seed() uint64
}

var registry = map[string]func(seed uint64) Strategy{
	NameForce:    func(seed uint64) Strategy { return NewForce(seed) },
	NameSpring:   func(seed uint64) Strategy { return NewSpring(seed) },
	NameDiagonal: func(uint64) Strategy { return Diagonal{} },
}

// New returns the strategy registered under name.
func New(name string, seed uint64) (Strategy, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownStrategy, name, Names())
	}
	return build(seed), nil
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// resetMarkers moves every alarm and situation to the origin.
func resetMarkers(s *topology.Store) {
	if s == nil {
		return
	}
	for _, a := range s.Alarms() {
		s.SetAlarmPosition(a.ReductionKey, topology.Origin)
	}
	for _, sit := range s.Situations() {
		s.SetSituationPosition(sit.ReductionKey, topology.Origin)
	}
}
