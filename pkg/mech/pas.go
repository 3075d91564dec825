package mech

import "github.com/kanzl/arbor/internal/consts"

// Pas is the passive leak channel: i = G*(v - E).
type Pas struct {
	base
	G float64 // leak conductance density, S/cm2
	E float64 // leak reversal potential, mV
}

// NewPas creates a leak channel over the given CVs with the classic
// defaults g = 0.001 S/cm2, e = -65 mV.
func NewPas(nodes []int) *Pas {
	return &Pas{
		base: base{name: "pas", nodes: nodes},
		G:    0.001,
		E:    consts.Vrest,
	}
}

func (p *Pas) Init(v []float64) {}

func (p *Pas) AddCurrent(v, i []float64) {
	for _, cv := range p.nodes {
		i[cv] += p.G * (v[cv] - p.E)
	}
}

func (p *Pas) AdvanceState(v []float64) {}
