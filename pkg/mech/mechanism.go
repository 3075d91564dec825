package mech

import (
	"errors"

	"github.com/kanzl/arbor/pkg/ion"
)

// ErrEventOutOfRange reports a NetReceive target beyond the synapse
// count of the receiving mechanism.
var ErrEventOutOfRange = errors.New("mech: event target outside the synapse range")

// Mechanism is a contributor to membrane current and internal gating
// state over a fixed set of CVs. Mechanisms read the shared voltage
// vector, accumulate into the shared current vector, and never write
// voltage. Both vectors are passed explicitly on each call; a mechanism
// holds no reference to them.
//
// Call order within a step: SetParams, AddCurrent on every mechanism,
// then (after the voltage solve) AdvanceState on every mechanism, in
// registration order.
type Mechanism interface {
	// Name returns the registry name of the mechanism.
	Name() string

	// NodeIndex returns the CV indices the mechanism occupies.
	NodeIndex() []int

	// Init zeroes internal state and samples initial values that depend
	// on the initial voltage or concentrations.
	Init(v []float64)

	// SetParams hands the mechanism the current timestep window.
	SetParams(t, dt float64)

	// AddCurrent accumulates the mechanism's membrane current density
	// (mA/cm2) into i at every owned CV. v must be current.
	AddCurrent(v, i []float64)

	// AdvanceState advances gating variables or synaptic state by the dt
	// given to SetParams.
	AdvanceState(v []float64)

	// UsesIon reports whether the mechanism depends on or influences the
	// species.
	UsesIon(k ion.Kind) bool

	// SetIon wires the mechanism to a shared ion state view. Called once
	// per used species at cell build time.
	SetIon(k ion.Kind, view ion.View)
}

// PointProcess is a mechanism placed at discrete sites rather than
// spread over a membrane area. It converts per-event conductance into a
// CV-area-normalised current density, and receives spike events.
type PointProcess interface {
	Mechanism

	// SetAreas gives the point process the full CV surface-area vector
	// (um2) for density normalisation.
	SetAreas(area []float64)

	// NetReceive delivers a spike event to the mechanism-local synapse
	// instance target, incrementing its conductance by weight (uS).
	NetReceive(target int, weight float64) error
}

// base carries the bookkeeping every mechanism shares.
type base struct {
	name  string
	nodes []int
	t     float64
	dt    float64
}

func (b *base) Name() string              { return b.name }
func (b *base) NodeIndex() []int          { return b.nodes }
func (b *base) SetParams(t, dt float64)   { b.t, b.dt = t, dt }
func (b *base) UsesIon(ion.Kind) bool     { return false }
func (b *base) SetIon(ion.Kind, ion.View) {}
