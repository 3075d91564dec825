package mech

import (
	"math"

	"github.com/kanzl/arbor/internal/consts"
	"github.com/kanzl/arbor/pkg/ion"
)

// HH is the classic Hodgkin-Huxley sodium/potassium/leak channel with
// m, h and n gates per CV. Reversal potentials for Na and K come from
// the cell's shared ion state; the leak reversal is a local parameter.
type HH struct {
	base
	GNaBar float64 // peak Na conductance density, S/cm2
	GKBar  float64 // peak K conductance density, S/cm2
	GL     float64 // leak conductance density, S/cm2
	EL     float64 // leak reversal potential, mV

	m, h, n []float64

	na ion.View
	k  ion.View
}

// NewHH creates the channel over the given CVs with the squid-axon
// defaults.
func NewHH(nodes []int) *HH {
	return &HH{
		base:   base{name: "hh", nodes: nodes},
		GNaBar: 0.12,
		GKBar:  0.036,
		GL:     0.0003,
		EL:     -54.3,
		m:      make([]float64, len(nodes)),
		h:      make([]float64, len(nodes)),
		n:      make([]float64, len(nodes)),
	}
}

func (c *HH) UsesIon(k ion.Kind) bool {
	return k == ion.Na || k == ion.K
}

func (c *HH) SetIon(k ion.Kind, view ion.View) {
	switch k {
	case ion.Na:
		c.na = view
	case ion.K:
		c.k = view
	}
}

// Init sets every gate to its steady state at the initial voltage.
func (c *HH) Init(v []float64) {
	for j, cv := range c.nodes {
		vm := v[cv]
		am, bm := rateM(vm)
		ah, bh := rateH(vm)
		an, bn := rateN(vm)
		c.m[j] = am / (am + bm)
		c.h[j] = ah / (ah + bh)
		c.n[j] = an / (an + bn)
	}
}

func (c *HH) AddCurrent(v, i []float64) {
	for j, cv := range c.nodes {
		vm := v[cv]
		ena, ek := c.reversals(j)
		m, h, n := c.m[j], c.h[j], c.n[j]
		gna := c.GNaBar * m * m * m * h
		gk := c.GKBar * n * n * n * n
		i[cv] += gna*(vm-ena) + gk*(vm-ek) + c.GL*(vm-c.EL)
	}
}

// AdvanceState moves every gate toward its voltage-dependent steady
// state with an exponential (semi-implicit) update over dt.
func (c *HH) AdvanceState(v []float64) {
	for j, cv := range c.nodes {
		vm := v[cv]
		am, bm := rateM(vm)
		ah, bh := rateH(vm)
		an, bn := rateN(vm)
		c.m[j] = gateStep(c.m[j], am, bm, c.dt)
		c.h[j] = gateStep(c.h[j], ah, bh, c.dt)
		c.n[j] = gateStep(c.n[j], an, bn, c.dt)
	}
}

// Gate returns the m, h and n gate values at the mechanism-local CV
// position j.
func (c *HH) Gate(j int) (m, h, n float64) {
	return c.m[j], c.h[j], c.n[j]
}

func (c *HH) reversals(j int) (ena, ek float64) {
	ena, ek = 115+consts.Vrest, -12+consts.Vrest
	if c.na.Len() > 0 {
		ena = c.na.ReversalPotential(j)
	}
	if c.k.Len() > 0 {
		ek = c.k.ReversalPotential(j)
	}
	return ena, ek
}

func gateStep(x, alpha, beta, dt float64) float64 {
	tau := 1 / (alpha + beta)
	inf := alpha * tau
	return x + (inf-x)*(1-math.Exp(-dt/tau))
}

// Rate constants of the 1952 formulation, shifted to a -65 mV rest.
// vtrap removes the removable singularity of x/(1-exp(-x/y)).

func rateM(v float64) (alpha, beta float64) {
	return 0.1 * vtrap(v+40, 10), 4 * math.Exp(-(v+65)/18)
}

func rateH(v float64) (alpha, beta float64) {
	return 0.07 * math.Exp(-(v+65)/20), 1 / (1 + math.Exp(-(v+35)/10))
}

func rateN(v float64) (alpha, beta float64) {
	return 0.01 * vtrap(v+55, 10), 0.125 * math.Exp(-(v+65)/80)
}

func vtrap(x, y float64) float64 {
	if math.Abs(x/y) < 1e-6 {
		return y + x/2
	}
	return x / (1 - math.Exp(-x/y))
}
