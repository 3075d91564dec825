package cell

import (
	"errors"
	"fmt"
)

// Construction errors surfaced when lowering a cell description.
var (
	ErrUnsupportedSegment = errors.New("cell: segment is neither soma nor cable")
	ErrSomaPlacement      = errors.New("cell: soma at non-zero segment index")
	ErrInvalidIndex       = errors.New("cell: location outside the compartment range")
)

// Location addresses a point on the cell: a segment and a relative
// position along it in [0,1].
type Location struct {
	Segment  int
	Position float64
}

// Cell is a morphological cell description: a soma, cable segments
// attached to it, and the stimuli and synapses decorating them. It is the
// input consumed by the FVM lowering and carries no simulation state.
type Cell struct {
	segments     []*Segment
	stimuli      []Stimulus
	synapses     []Location
	synapseModel string
}

// New creates an empty cell description.
func New() *Cell {
	return &Cell{synapseModel: "expsyn"}
}

// SetSynapseModel selects the point-process mechanism receiving spike
// events. The default is "expsyn".
func (c *Cell) SetSynapseModel(name string) {
	c.synapseModel = name
}

// SynapseModel returns the name of the event-receiving mechanism.
func (c *Cell) SynapseModel() string {
	return c.synapseModel
}

// AddSoma appends a spherical soma with the given radius (um). The soma
// must be the first segment of the cell.
func (c *Cell) AddSoma(radius float64) (*Segment, error) {
	if len(c.segments) != 0 {
		return nil, fmt.Errorf("%w: segment %d", ErrSomaPlacement, len(c.segments))
	}
	s := newSoma(radius)
	c.segments = append(c.segments, s)
	return s, nil
}

// AddCable appends a cable segment attached to the distal end of the
// parent segment, subdivided into ncomp equal compartments.
func (c *Cell) AddCable(parent int, length, rProx, rDist float64, ncomp int) (*Segment, error) {
	if parent < 0 || parent >= len(c.segments) {
		return nil, fmt.Errorf("%w: parent segment %d of %d", ErrInvalidIndex, parent, len(c.segments))
	}
	if ncomp < 1 {
		return nil, fmt.Errorf("cell: cable needs at least one compartment, got %d", ncomp)
	}
	s := newCable(parent, length, rProx, rDist, ncomp)
	c.segments = append(c.segments, s)
	return s, nil
}

// AddStimulus attaches a current clamp at loc.
func (c *Cell) AddStimulus(loc Location, clamp IClamp) {
	c.stimuli = append(c.stimuli, Stimulus{Loc: loc, Clamp: clamp})
}

// AddSynapse places a synapse at loc.
func (c *Cell) AddSynapse(loc Location) {
	c.synapses = append(c.synapses, loc)
}

// Segments returns the segments in construction order.
func (c *Cell) Segments() []*Segment {
	return c.segments
}

// Segment returns segment i.
func (c *Cell) Segment(i int) *Segment {
	return c.segments[i]
}

// NumSegments returns the number of segments.
func (c *Cell) NumSegments() int {
	return len(c.segments)
}

// Stimuli returns the attached current clamps.
func (c *Cell) Stimuli() []Stimulus {
	return c.stimuli
}

// Synapses returns the synapse locations.
func (c *Cell) Synapses() []Location {
	return c.synapses
}

// NumCompartments returns the total CV count of the discretised cell.
func (c *Cell) NumCompartments() int {
	n := 0
	for _, s := range c.segments {
		n += s.numCompartments()
	}
	return n
}
