package cell

import (
	"github.com/kanzl/arbor/internal/consts"
	"github.com/kanzl/arbor/pkg/util"
)

type SegmentKind int

const (
	SomaSegment SegmentKind = iota
	CableSegment
)

// RadiusPair holds the radii at the proximal and distal ends of a
// compartment, in um. Proximal is the end closer to the soma.
type RadiusPair struct {
	Prox float64
	Dist float64
}

// Compartment is one equal-length subdivision of a cable segment.
type Compartment struct {
	Index  int
	Length float64 // um
	Radius RadiusPair
}

// Segment is one morphological section of a cell: the soma, or a cable
// attached to an earlier segment. Cables taper linearly from RadiusProx
// to RadiusDist and are discretised into NumCompartments equal pieces.
type Segment struct {
	Kind       SegmentKind
	Parent     int     // parent segment index; -1 for the soma
	Radius     float64 // soma radius, um
	Length     float64 // cable length, um
	RadiusProx float64 // cable radius at the proximal end, um
	RadiusDist float64 // cable radius at the distal end, um

	NumCompartments int

	// Membrane parameters.
	Cm float64 // specific capacitance, F/m2
	RL float64 // axial resistivity, Ohm*cm

	mechanisms []string
}

// AddMechanism places a density mechanism on the segment.
func (s *Segment) AddMechanism(name string) *Segment {
	s.mechanisms = append(s.mechanisms, name)
	return s
}

// Mechanisms returns the density mechanism names placed on the segment.
func (s *Segment) Mechanisms() []string {
	return s.mechanisms
}

// numCompartments returns how many CVs the segment contributes.
func (s *Segment) numCompartments() int {
	if s.Kind == SomaSegment {
		return 1
	}
	return s.NumCompartments
}

// Compartments enumerates the compartments of a cable segment with
// linearly interpolated end radii.
func (s *Segment) Compartments() []Compartment {
	if s.Kind != CableSegment {
		return nil
	}
	n := s.NumCompartments
	comps := make([]Compartment, n)
	dx := s.Length / float64(n)
	for i := range comps {
		comps[i] = Compartment{
			Index:  i,
			Length: dx,
			Radius: RadiusPair{
				Prox: util.Lerp(s.RadiusProx, s.RadiusDist, float64(i)/float64(n)),
				Dist: util.Lerp(s.RadiusProx, s.RadiusDist, float64(i+1)/float64(n)),
			},
		}
	}
	return comps
}

func newSoma(radius float64) *Segment {
	return &Segment{
		Kind:   SomaSegment,
		Parent: -1,
		Radius: radius,
		Cm:     consts.Cm,
		RL:     consts.RL,
	}
}

func newCable(parent int, length, rProx, rDist float64, ncomp int) *Segment {
	return &Segment{
		Kind:            CableSegment,
		Parent:          parent,
		Length:          length,
		RadiusProx:      rProx,
		RadiusDist:      rDist,
		NumCompartments: ncomp,
		Cm:              consts.Cm,
		RL:              consts.RL,
	}
}
