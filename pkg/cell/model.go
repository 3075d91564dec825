package cell

import (
	"fmt"
	"math"
)

// Model is the compartment graph of a discretised cell: for every CV its
// parent CV, and the CV-range offsets of each segment. Immutable once
// built.
//
// ParentIndex[0] == 0 is the root sentinel; ParentIndex[i] < i for i > 0,
// so the CVs are in reverse-topological order from the soma outward.
type Model struct {
	ParentIndex  []int
	SegmentIndex []int
}

// Size returns the number of CVs.
func (m Model) Size() int {
	return len(m.ParentIndex)
}

// Model builds the compartment graph for the cell.
//
// The soma occupies CV 0. Each cable compartment's parent is its
// predecessor along the cable, and the first compartment of a cable hangs
// off the last CV of its parent segment.
func (c *Cell) Model() (Model, error) {
	n := c.NumCompartments()
	m := Model{
		ParentIndex:  make([]int, 0, n),
		SegmentIndex: make([]int, 0, len(c.segments)+1),
	}

	for si, s := range c.segments {
		m.SegmentIndex = append(m.SegmentIndex, len(m.ParentIndex))
		switch s.Kind {
		case SomaSegment:
			if si != 0 {
				return Model{}, fmt.Errorf("%w: segment %d", ErrSomaPlacement, si)
			}
			m.ParentIndex = append(m.ParentIndex, 0)
		case CableSegment:
			// Last CV of the parent segment. The proximal end of a cable
			// attaches to the distal end of its parent.
			attach := m.SegmentIndex[s.Parent+1] - 1
			for k := 0; k < s.NumCompartments; k++ {
				i := len(m.ParentIndex)
				if k == 0 {
					m.ParentIndex = append(m.ParentIndex, attach)
				} else {
					m.ParentIndex = append(m.ParentIndex, i-1)
				}
			}
		default:
			return Model{}, fmt.Errorf("%w: segment %d kind %d", ErrUnsupportedSegment, si, s.Kind)
		}
	}
	m.SegmentIndex = append(m.SegmentIndex, len(m.ParentIndex))

	for i := 1; i < len(m.ParentIndex); i++ {
		if m.ParentIndex[i] >= i {
			return Model{}, fmt.Errorf("cell: parent index %d of CV %d breaks reverse-topological order", m.ParentIndex[i], i)
		}
	}
	return m, nil
}

// CompartmentIndex resolves a location to the CV containing it.
func (m Model) CompartmentIndex(loc Location) (int, error) {
	nseg := len(m.SegmentIndex) - 1
	if loc.Segment < 0 || loc.Segment >= nseg {
		return 0, fmt.Errorf("%w: segment %d of %d", ErrInvalidIndex, loc.Segment, nseg)
	}
	if loc.Position < 0 || loc.Position > 1 || math.IsNaN(loc.Position) {
		return 0, fmt.Errorf("%w: position %v", ErrInvalidIndex, loc.Position)
	}
	lo, hi := m.SegmentIndex[loc.Segment], m.SegmentIndex[loc.Segment+1]
	i := lo + int(loc.Position*float64(hi-lo))
	if i >= hi {
		i = hi - 1
	}
	return i, nil
}

// SegmentRange returns the half-open CV range [lo,hi) of segment s.
func (m Model) SegmentRange(s int) (int, int) {
	return m.SegmentIndex[s], m.SegmentIndex[s+1]
}
