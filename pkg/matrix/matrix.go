package matrix

import (
	"errors"
	"fmt"
	"math"
)

// ErrNumericalInstability reports a non-finite or zero pivot during
// elimination.
var ErrNumericalInstability = errors.New("matrix: non-finite or zero pivot")

// Hines is the tridiagonal-in-topology linear system arising from
// implicit time discretisation of the cable equation on a tree.
//
// Storage is four equal-length arrays plus the borrowed parent index p,
// where j = p[i] is the parent of row i:
//
//	d[i] is the diagonal entry a_ii
//	u[i] is the upper triangle entry a_ji
//	l[i] is the lower triangle entry a_ij
//
//	 d[j] . . u[i]
//	  .  .     .
//	  .     .  .
//	 l[i] . . d[i]
//
// Because p[i] < i for i > 0, one backward sweep eliminates the upper
// off-diagonals and one forward sweep back-substitutes, for any tree
// topology, in O(n).
type Hines struct {
	l   []float64
	d   []float64
	u   []float64
	rhs []float64
	p   []int
}

// New creates a zeroed system over the given parent index. The parent
// slice is borrowed, not copied. parent[0] must be 0 (the root sentinel)
// and parent[i] < i for i > 0.
func New(parent []int) (*Hines, error) {
	n := len(parent)
	if n == 0 {
		return nil, errors.New("matrix: empty parent index")
	}
	if parent[0] != 0 {
		return nil, fmt.Errorf("matrix: root parent must be the sentinel 0, got %d", parent[0])
	}
	for i := 1; i < n; i++ {
		if parent[i] < 0 || parent[i] >= i {
			return nil, fmt.Errorf("matrix: parent[%d] = %d breaks reverse-topological order", i, parent[i])
		}
	}
	return &Hines{
		l:   make([]float64, n),
		d:   make([]float64, n),
		u:   make([]float64, n),
		rhs: make([]float64, n),
		p:   parent,
	}, nil
}

func (m *Hines) Size() int { return len(m.d) }

// L, D, U and RHS expose the matrix bands for assembly.
func (m *Hines) L() []float64   { return m.l }
func (m *Hines) D() []float64   { return m.d }
func (m *Hines) U() []float64   { return m.u }
func (m *Hines) RHS() []float64 { return m.rhs }

// Parent returns the borrowed parent index.
func (m *Hines) Parent() []int { return m.p }

// Solve factorises and back-substitutes in place, leaving the solution
// in RHS. The band arrays are consumed.
func (m *Hines) Solve() error {
	l, d, u, rhs, p := m.l, m.d, m.u, m.rhs, m.p
	n := len(d)

	// Backward sweep: eliminate the upper off-diagonals leaf-to-root.
	for i := n - 1; i >= 1; i-- {
		if !pivotOK(d[i]) {
			return fmt.Errorf("%w: d[%d] = %v", ErrNumericalInstability, i, d[i])
		}
		factor := u[i] / d[i]
		d[p[i]] -= factor * l[i]
		rhs[p[i]] -= factor * rhs[i]
	}
	if !pivotOK(d[0]) {
		return fmt.Errorf("%w: d[0] = %v", ErrNumericalInstability, d[0])
	}
	rhs[0] /= d[0]

	// Forward sweep: back-substitute root-to-leaf.
	for i := 1; i < n; i++ {
		rhs[i] = (rhs[i] - l[i]*rhs[p[i]]) / d[i]
	}
	return nil
}

func pivotOK(d float64) bool {
	return d != 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
