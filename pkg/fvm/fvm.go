// Package fvm lowers a morphological cell description into a
// finite-volume discretisation of the cable equation and advances its
// membrane-potential dynamics in time.
//
// One CV (control volume) per compartment, one unknown voltage per CV.
// Each step assembles a Hines tridiagonal system from the precomputed
// geometry coefficients, solves it implicitly, and updates mechanism
// state; pending spike events are interleaved exactly at their delivery
// times.
package fvm

import (
	"fmt"
	"math"

	"github.com/kanzl/arbor/internal/consts"
	"github.com/kanzl/arbor/pkg/cell"
	"github.com/kanzl/arbor/pkg/event"
	"github.com/kanzl/arbor/pkg/ion"
	"github.com/kanzl/arbor/pkg/matrix"
	"github.com/kanzl/arbor/pkg/mech"
	"github.com/kanzl/arbor/pkg/util"
)

// SampleFunc observes the cell after every completed substep.
type SampleFunc func(t float64, v []float64)

type stimulus struct {
	cv    int
	clamp cell.IClamp
}

// Cell is the FVM state machine of one neuron.
type Cell struct {
	t float64

	model cell.Model

	cvArea        []float64 // um2, constant after construction
	cvCapacitance []float64 // F/m2, area-normalised, constant
	faceAlpha     []float64 // axial conductance coefficient per CV face
	voltage       []float64 // mV
	current       []float64 // mA/cm2, reset each step

	mat *matrix.Hines

	mechanisms   []mech.Mechanism
	synapse      mech.PointProcess
	synapseIndex int

	ions [ion.NumKinds]*ion.State

	stimuli []stimulus
	events  *event.Queue

	vrest   float64
	sampler SampleFunc
}

// New lowers a cell description: geometry to CV coefficients, density
// mechanisms, shared ion state, stimuli and synapses. Invalid indices
// and malformed descriptions are rejected here, not at step time.
func New(desc *cell.Cell) (*Cell, error) {
	model, err := desc.Model()
	if err != nil {
		return nil, fmt.Errorf("fvm: building compartment model: %w", err)
	}
	n := model.Size()

	c := &Cell{
		model:         model,
		cvArea:        make([]float64, n),
		cvCapacitance: make([]float64, n),
		faceAlpha:     make([]float64, n),
		voltage:       make([]float64, n),
		current:       make([]float64, n),
		events:        event.NewQueue(),
		synapseIndex:  -1,
		vrest:         consts.Vrest,
	}

	c.mat, err = matrix.New(model.ParentIndex)
	if err != nil {
		return nil, fmt.Errorf("fvm: %w", err)
	}

	if err := c.lowerGeometry(desc); err != nil {
		return nil, err
	}
	if err := c.buildMechanisms(desc); err != nil {
		return nil, err
	}
	c.buildIons()

	for _, stim := range desc.Stimuli() {
		cv, err := model.CompartmentIndex(stim.Loc)
		if err != nil {
			return nil, fmt.Errorf("fvm: stimulus: %w", err)
		}
		c.stimuli = append(c.stimuli, stimulus{cv: cv, clamp: stim.Clamp})
	}

	if err := c.buildSynapses(desc); err != nil {
		return nil, err
	}

	return c, nil
}

// lowerGeometry accumulates surface areas, capacitances and axial
// coefficients from the segment geometry.
//
// Each cable compartment has the face between two CVs at its centre; the
// CV centres are the compartment end points. The half-compartment
// frustum on the proximal side of the face belongs to the parent CV, the
// distal half to the CV itself.
func (c *Cell) lowerGeometry(desc *cell.Cell) error {
	for si, seg := range desc.Segments() {
		switch seg.Kind {
		case cell.SomaSegment:
			area := util.AreaSphere(seg.Radius)
			c.cvArea[0] += area
			c.cvCapacitance[0] += area * seg.Cm
		case cell.CableSegment:
			lo, _ := c.model.SegmentRange(si)
			for _, comp := range seg.Compartments() {
				i := lo + comp.Index
				j := c.model.ParentIndex[i]

				rc := util.Mean(comp.Radius.Prox, comp.Radius.Dist)
				c.faceAlpha[i] = util.AreaCircle(rc) / (seg.Cm * seg.RL * comp.Length)

				half := comp.Length / 2
				al := util.AreaFrustum(half, comp.Radius.Prox, rc)
				ar := util.AreaFrustum(half, comp.Radius.Dist, rc)
				c.cvArea[j] += al
				c.cvArea[i] += ar
				c.cvCapacitance[j] += al * seg.Cm
				c.cvCapacitance[i] += ar * seg.Cm
			}
		default:
			return fmt.Errorf("fvm: segment %d: %w", si, cell.ErrUnsupportedSegment)
		}
	}

	for i := range c.cvArea {
		if c.cvArea[i] <= 0 || c.cvCapacitance[i] <= 0 {
			return fmt.Errorf("fvm: CV %d has non-positive area", i)
		}
		c.cvCapacitance[i] /= c.cvArea[i]
	}
	return nil
}

// buildMechanisms instantiates one mechanism per distinct density
// mechanism name, over the CVs of every segment carrying that name.
func (c *Cell) buildMechanisms(desc *cell.Cell) error {
	var names []string
	segsOf := map[string][]int{}
	for si, seg := range desc.Segments() {
		for _, name := range seg.Mechanisms() {
			if _, seen := segsOf[name]; !seen {
				names = append(names, name)
			}
			segsOf[name] = append(segsOf[name], si)
		}
	}

	n := c.Size()
	for _, name := range names {
		var nodes []int
		for _, si := range segsOf[name] {
			lo, hi := c.model.SegmentRange(si)
			for i := lo; i < hi; i++ {
				nodes = append(nodes, i)
			}
		}
		for _, i := range nodes {
			if i < 0 || i >= n {
				return fmt.Errorf("fvm: mechanism %q: %w", name, cell.ErrInvalidIndex)
			}
		}
		m, err := mech.New(name, nodes)
		if err != nil {
			return fmt.Errorf("fvm: %w", err)
		}
		if pp, ok := m.(mech.PointProcess); ok {
			pp.SetAreas(c.cvArea)
		}
		c.mechanisms = append(c.mechanisms, m)
	}
	return nil
}

// buildIons creates, per species, the shared state over the union of the
// CV sets of all mechanisms using it, and wires each such mechanism to a
// view. The first user of a species is its reversal-potential provider.
func (c *Cell) buildIons() {
	for _, k := range ion.Kinds() {
		present := map[int]bool{}
		for _, m := range c.mechanisms {
			if !m.UsesIon(k) {
				continue
			}
			for _, i := range m.NodeIndex() {
				present[i] = true
			}
		}
		if len(present) == 0 {
			continue
		}
		nodes := make([]int, 0, len(present))
		for i := range c.cvArea {
			if present[i] {
				nodes = append(nodes, i)
			}
		}
		c.ions[k] = ion.NewState(k, nodes)

		provider := true
		for _, m := range c.mechanisms {
			if !m.UsesIon(k) {
				continue
			}
			// ViewFor cannot fail here: the shared set is the union of
			// the node sets it is called with.
			view, _ := c.ions[k].ViewFor(m.NodeIndex(), provider)
			m.SetIon(k, view)
			provider = false
		}
	}
}

// buildSynapses gathers the synapse locations into one point-process
// mechanism, the distinguished receiver of queued events.
func (c *Cell) buildSynapses(desc *cell.Cell) error {
	locs := desc.Synapses()
	if len(locs) == 0 {
		return nil
	}
	nodes := make([]int, len(locs))
	for si, loc := range locs {
		cv, err := c.model.CompartmentIndex(loc)
		if err != nil {
			return fmt.Errorf("fvm: synapse %d: %w", si, err)
		}
		nodes[si] = cv
	}
	m, err := mech.New(desc.SynapseModel(), nodes)
	if err != nil {
		return fmt.Errorf("fvm: %w", err)
	}
	pp, ok := m.(mech.PointProcess)
	if !ok {
		return fmt.Errorf("fvm: synapse mechanism %q is not a point process", desc.SynapseModel())
	}
	pp.SetAreas(c.cvArea)
	c.mechanisms = append(c.mechanisms, pp)
	c.synapse = pp
	c.synapseIndex = len(c.mechanisms) - 1
	return nil
}

// Initialize resets time to zero, the voltage to rest, and every
// mechanism's internal state. It is the only transition into the ready
// state and is idempotent.
func (c *Cell) Initialize() {
	c.t = 0
	for i := range c.voltage {
		c.voltage[i] = c.vrest
		c.current[i] = 0
	}
	for _, m := range c.mechanisms {
		m.Init(c.voltage)
	}
}

// Advance makes one implicit step of size dt.
func (c *Cell) Advance(dt float64) error {
	for i := range c.current {
		c.current[i] = 0
	}

	// Membrane currents from mechanisms, in registration order.
	for _, m := range c.mechanisms {
		m.SetParams(c.t, dt)
		m.AddCurrent(c.voltage, c.current)
	}

	// Injected stimulus currents, nA spread over the CV surface.
	for _, stim := range c.stimuli {
		ie := stim.clamp.Current(c.t)
		c.current[stim.cv] -= consts.InjectedCurrentScale * ie / c.cvArea[stim.cv]
	}

	c.assembleMatrix(dt)

	if err := c.mat.Solve(); err != nil {
		return fmt.Errorf("fvm: advance at t=%g: %w", c.t, err)
	}
	copy(c.voltage, c.mat.RHS())

	for _, m := range c.mechanisms {
		m.AdvanceState(c.voltage)
	}

	c.t += dt
	return nil
}

// assembleMatrix loads the implicit system for a step of size dt:
//
//	(A_i + sum a) v_i' - sum a v_j' = A_i (v_i - 10 dt / c_m * i_m)
//
// with a = 1e5 * dt * face_alpha at each CV face, all on the um2 scale
// of the CV areas.
func (c *Cell) assembleMatrix(dt float64) {
	l, d, u, rhs := c.mat.L(), c.mat.D(), c.mat.U(), c.mat.RHS()
	p := c.mat.Parent()

	copy(d, c.cvArea)
	for i := 1; i < len(d); i++ {
		a := consts.AxialCoeffScale * dt * c.faceAlpha[i]
		d[i] += a
		l[i] = -a
		u[i] = -a
		d[p[i]] += a
	}

	factor := consts.MembraneCurrentScale * dt
	for i := range rhs {
		rhs[i] = c.cvArea[i] * (c.voltage[i] - factor/c.cvCapacitance[i]*c.current[i])
	}
}

// AdvanceTo advances the solution to tfinal with maximum step size dt,
// delivering queued events exactly at their scheduled times. The final
// step lands exactly on tfinal: t is assigned, not accumulated.
func (c *Cell) AdvanceTo(tfinal, dt float64) error {
	if c.t >= tfinal {
		return nil
	}
	for c.t < tfinal {
		tnext := math.Min(tfinal, c.t+dt)
		e, ok := c.events.PopIfBefore(tnext)
		if ok {
			tnext = e.Time
		}
		if err := c.Advance(tnext - c.t); err != nil {
			return err
		}
		c.t = tnext
		if ok {
			if c.synapse == nil {
				return fmt.Errorf("fvm: %w: no synapse mechanism", mech.ErrEventOutOfRange)
			}
			if err := c.synapse.NetReceive(int(e.Target), float64(e.Weight)); err != nil {
				return fmt.Errorf("fvm: %w", err)
			}
		}
		if c.sampler != nil {
			c.sampler(c.t, c.voltage)
		}
	}
	return nil
}

// OnSample registers an observer called after every completed substep of
// AdvanceTo.
func (c *Cell) OnSample(fn SampleFunc) {
	c.sampler = fn
}

// Time returns the current simulation time (ms).
func (c *Cell) Time() float64 { return c.t }

// Size returns the number of CVs.
func (c *Cell) Size() int { return len(c.voltage) }

// Voltage returns the membrane potential vector (mV).
func (c *Cell) Voltage() []float64 { return c.voltage }

// CVAreas returns the CV surface areas (um2).
func (c *Cell) CVAreas() []float64 { return c.cvArea }

// CVCapacitance returns the area-normalised specific capacitance of
// each CV (F/m2).
func (c *Cell) CVCapacitance() []float64 { return c.cvCapacitance }

// FaceAlpha returns the axial conductance coefficients; entry 0 is the
// root sentinel and stays zero.
func (c *Cell) FaceAlpha() []float64 { return c.faceAlpha }

// Jacobian returns the cell's linear system.
func (c *Cell) Jacobian() *matrix.Hines { return c.mat }

// Queue returns the event queue for external producers.
func (c *Cell) Queue() *event.Queue { return c.events }

// Mechanisms returns the mechanism instances in registration order.
func (c *Cell) Mechanisms() []mech.Mechanism { return c.mechanisms }

// Synapse returns the distinguished event-receiving mechanism, or nil
// if the cell has no synapses.
func (c *Cell) Synapse() mech.PointProcess { return c.synapse }

// Ion returns the shared state of a species, or nil if no mechanism
// uses it.
func (c *Cell) Ion(k ion.Kind) *ion.State { return c.ions[k] }

// SetResting overrides the initial membrane potential applied by
// Initialize.
func (c *Cell) SetResting(v float64) { c.vrest = v }
