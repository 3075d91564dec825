package ion

import (
	"fmt"
	"math"

	"github.com/kanzl/arbor/internal/consts"
)

// Kind enumerates the ion species a mechanism can couple to. A fixed
// enumeration keeps the per-step ion lookup a plain array index.
type Kind int

const (
	Na Kind = iota
	K
	Ca
	NumKinds
)

func (k Kind) String() string {
	switch k {
	case Na:
		return "na"
	case K:
		return "k"
	case Ca:
		return "ca"
	}
	return fmt.Sprintf("ion(%d)", int(k))
}

// Kinds lists all species in a stable order.
func Kinds() [NumKinds]Kind {
	return [NumKinds]Kind{Na, K, Ca}
}

// State holds the per-species vectors of one ion, indexed by the shared
// CV index list: the union of the CV sets of all mechanisms that use the
// species. All three vectors have the same length as the index list.
type State struct {
	nodeIndex []int
	erev      []float64 // reversal potential, mV
	xi        []float64 // internal concentration, mM
	xo        []float64 // external concentration, mM
}

// NewState creates the ion state over a sorted CV index list and fills
// the classical defaults for the species, relative to a rest of -65 mV
// for Na and K and by Nernst as 12.5*ln(xo/xi) mV for Ca. The defaults can
// be overwritten per cell before stepping.
func NewState(k Kind, nodeIndex []int) *State {
	n := len(nodeIndex)
	s := &State{
		nodeIndex: nodeIndex,
		erev:      make([]float64, n),
		xi:        make([]float64, n),
		xo:        make([]float64, n),
	}
	var erev, xi, xo float64
	switch k {
	case Na:
		erev, xi, xo = 115+consts.Vrest, 10.0, 140.0
	case K:
		erev, xi, xo = -12+consts.Vrest, 54.4, 2.5
	case Ca:
		xi, xo = 5e-5, 2.0
		erev = 12.5 * math.Log(xo/xi)
	}
	for i := 0; i < n; i++ {
		s.erev[i] = erev
		s.xi[i] = xi
		s.xo[i] = xo
	}
	return s
}

func (s *State) Len() int         { return len(s.nodeIndex) }
func (s *State) NodeIndex() []int { return s.nodeIndex }

// ReversalPotential exposes the Erev vector for per-cell overrides.
func (s *State) ReversalPotential() []float64 { return s.erev }

// InternalConcentration exposes the internal concentration vector.
func (s *State) InternalConcentration() []float64 { return s.xi }

// ExternalConcentration exposes the external concentration vector.
func (s *State) ExternalConcentration() []float64 { return s.xo }

// View is a mechanism's window onto an ion state: position j of the view
// corresponds to the mechanism's j-th CV. Concentrations are read-only;
// the reversal potential is writable only for the mechanism registered
// as the species' reversal-potential provider.
type View struct {
	state    *State
	index    []int
	provider bool
}

// ViewFor maps the given CV indices into the state's shared index list.
// Every CV must be present in the list.
func (s *State) ViewFor(nodeIndex []int, provider bool) (View, error) {
	pos := make(map[int]int, len(s.nodeIndex))
	for p, cv := range s.nodeIndex {
		pos[cv] = p
	}
	index := make([]int, len(nodeIndex))
	for j, cv := range nodeIndex {
		p, ok := pos[cv]
		if !ok {
			return View{}, fmt.Errorf("ion: CV %d not in the shared index set", cv)
		}
		index[j] = p
	}
	return View{state: s, index: index, provider: provider}, nil
}

func (v View) Len() int { return len(v.index) }

// ReversalPotential returns Erev at the mechanism-local position j.
func (v View) ReversalPotential(j int) float64 {
	return v.state.erev[v.index[j]]
}

// SetReversalPotential writes Erev at position j. Only the provider may
// write; other mechanisms' writes are dropped.
func (v View) SetReversalPotential(j int, erev float64) {
	if v.provider {
		v.state.erev[v.index[j]] = erev
	}
}

// InternalConcentration returns the internal concentration at j.
func (v View) InternalConcentration(j int) float64 {
	return v.state.xi[v.index[j]]
}

// ExternalConcentration returns the external concentration at j.
func (v View) ExternalConcentration(j int) float64 {
	return v.state.xo[v.index[j]]
}
