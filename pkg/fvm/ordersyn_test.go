package fvm_test

import (
	"github.com/kanzl/arbor/pkg/ion"
	"github.com/kanzl/arbor/pkg/mech"
)

// orderSyn is a recording point process: it contributes no current and
// logs every NetReceive with the time of the substep that delivered it.
type orderSyn struct {
	nodes []int
	t, dt float64

	times      []float64
	weights    []float64
	deliveries []struct {
		target int
		weight float64
	}
}

var _ mech.PointProcess = (*orderSyn)(nil)

func (s *orderSyn) Name() string              { return "ordersyn" }
func (s *orderSyn) NodeIndex() []int          { return s.nodes }
func (s *orderSyn) Init(v []float64)          {}
func (s *orderSyn) SetParams(t, dt float64)   { s.t, s.dt = t, dt }
func (s *orderSyn) AddCurrent(v, i []float64) {}
func (s *orderSyn) AdvanceState(v []float64)  {}
func (s *orderSyn) UsesIon(ion.Kind) bool     { return false }
func (s *orderSyn) SetIon(ion.Kind, ion.View) {}
func (s *orderSyn) SetAreas(area []float64)   {}

func (s *orderSyn) NetReceive(target int, weight float64) error {
	// Delivery happens right after the substep that ends at t+dt.
	s.times = append(s.times, s.t+s.dt)
	s.weights = append(s.weights, weight)
	s.deliveries = append(s.deliveries, struct {
		target int
		weight float64
	}{target, weight})
	return nil
}

func init() {
	mech.Register("ordersyn", func(nodes []int) mech.Mechanism {
		return &orderSyn{nodes: nodes}
	})
}
