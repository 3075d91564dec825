package event

import (
	"math"
	"sort"
)

// Generator produces an ascending sequence of events for a cell. Events
// are ordered by (time, target, weight). Successive calls to Events must
// be monotonic in time: after Events(t0, t1), the next call must have
// from >= t1 unless Reset is called in between.
type Generator interface {
	// Events returns the generated events with from <= Time < to.
	Events(from, to float64) []Event
	// Reset rewinds the generator to its initial state.
	Reset()
}

// RegularGenerator emits an event every Period ms starting at Start,
// always to the same target and with the same weight.
type RegularGenerator struct {
	Start  float64
	Period float64
	Target uint32
	Weight float32
}

// Events returns the schedule points in [from, to).
func (g RegularGenerator) Events(from, to float64) []Event {
	if g.Period <= 0 || to <= g.Start {
		return nil
	}
	if from < g.Start {
		from = g.Start
	}
	n := math.Ceil((from - g.Start) / g.Period)
	var out []Event
	for t := g.Start + n*g.Period; t < to; t += g.Period {
		out = append(out, Event{Time: t, Target: g.Target, Weight: g.Weight})
	}
	return out
}

// Reset is a no-op: the schedule is computed from the window alone.
func (g RegularGenerator) Reset() {}

// ExplicitGenerator replays a fixed list of events.
type ExplicitGenerator struct {
	events []Event
	next   int
}

// NewExplicitGenerator copies and sorts the given events.
func NewExplicitGenerator(events []Event) *ExplicitGenerator {
	es := make([]Event, len(events))
	copy(es, events)
	sort.Slice(es, func(i, j int) bool { return es[i].Before(es[j]) })
	return &ExplicitGenerator{events: es}
}

// Events returns the stored events with from <= Time < to, consuming
// them from the sequence.
func (g *ExplicitGenerator) Events(from, to float64) []Event {
	for g.next < len(g.events) && g.events[g.next].Time < from {
		g.next++
	}
	lo := g.next
	for g.next < len(g.events) && g.events[g.next].Time < to {
		g.next++
	}
	return g.events[lo:g.next]
}

// Reset rewinds to the first stored event.
func (g *ExplicitGenerator) Reset() { g.next = 0 }

// Fill pushes all events a generator produces in [from, to) onto the
// queue.
func Fill(q *Queue, g Generator, from, to float64) {
	for _, e := range g.Events(from, to) {
		q.Push(e)
	}
}
