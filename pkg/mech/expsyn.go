package mech

import (
	"fmt"
	"math"

	"github.com/kanzl/arbor/internal/consts"
)

// ExpSyn is a single-exponential conductance synapse. Each entry of the
// node index is one synapse instance with its own conductance g (uS),
// and several instances may share a CV; NetReceive
// adds an event weight to g, and g decays with time constant Tau.
//
// As a point process its current is a whole-instance current in nA,
// normalised by the CV surface area into a density.
type ExpSyn struct {
	base
	Tau float64 // decay time constant, ms
	E   float64 // synaptic reversal potential, mV

	g    []float64
	area []float64
}

var _ PointProcess = (*ExpSyn)(nil)

// NewExpSyn creates one synapse instance per entry of nodes.
func NewExpSyn(nodes []int) *ExpSyn {
	return &ExpSyn{
		base: base{name: "expsyn", nodes: nodes},
		Tau:  2.0,
		E:    0.0,
		g:    make([]float64, len(nodes)),
	}
}

// SetAreas gives the synapse the CV surface-area vector (um2).
func (s *ExpSyn) SetAreas(area []float64) {
	s.area = area
}

func (s *ExpSyn) Init(v []float64) {
	for j := range s.g {
		s.g[j] = 0
	}
}

func (s *ExpSyn) AddCurrent(v, i []float64) {
	for j, cv := range s.nodes {
		// g*(v-E) is in nA for g in uS and v in mV.
		i[cv] += consts.InjectedCurrentScale * s.g[j] * (v[cv] - s.E) / s.area[cv]
	}
}

func (s *ExpSyn) AdvanceState(v []float64) {
	decay := math.Exp(-s.dt / s.Tau)
	for j := range s.g {
		s.g[j] *= decay
	}
}

// NetReceive increments the conductance of synapse instance target by
// weight (uS).
func (s *ExpSyn) NetReceive(target int, weight float64) error {
	if target < 0 || target >= len(s.g) {
		return fmt.Errorf("%w: target %d of %d", ErrEventOutOfRange, target, len(s.g))
	}
	s.g[target] += weight
	return nil
}

// Conductance returns the conductance (uS) of synapse instance j.
func (s *ExpSyn) Conductance(j int) float64 {
	return s.g[j]
}
