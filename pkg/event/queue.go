package event

// Event is a pending synaptic delivery: at Time (ms), add Weight to the
// conductance of synapse instance Target on the receiving mechanism.
type Event struct {
	Time   float64
	Target uint32
	Weight float32
}

// Before orders events by (time, target, weight) so that simultaneous
// deliveries have a deterministic order.
func (e Event) Before(o Event) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	if e.Target != o.Target {
		return e.Target < o.Target
	}
	return e.Weight < o.Weight
}

// Queue is a min-priority queue of pending events. Events may be pushed
// in any order; they pop in (time, target, weight) order.
//
// The heap is 4-ary: spike delivery pops one event per substep while the
// queue can hold many, so the shallower tree trades slightly more sibling
// comparisons for fewer cache-missing levels.
type Queue struct {
	heap []Event
}

const degree = 4

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Len returns the number of pending events.
func (q *Queue) Len() int { return len(q.heap) }

// Push inserts an event. O(log n).
func (q *Queue) Push(e Event) {
	q.heap = append(q.heap, e)
	q.siftUp(len(q.heap) - 1)
}

// PopIfBefore removes and returns the earliest event if its delivery
// time is strictly before t.
func (q *Queue) PopIfBefore(t float64) (Event, bool) {
	if len(q.heap) == 0 || q.heap[0].Time >= t {
		return Event{}, false
	}
	e := q.heap[0]
	last := len(q.heap) - 1
	q.heap[0] = q.heap[last]
	q.heap = q.heap[:last]
	if last > 0 {
		q.siftDown(0)
	}
	return e, true
}

// Peek returns the earliest pending event without removing it.
func (q *Queue) Peek() (Event, bool) {
	if len(q.heap) == 0 {
		return Event{}, false
	}
	return q.heap[0], true
}

// Reset empties the queue.
func (q *Queue) Reset() {
	q.heap = q.heap[:0]
}

func (q *Queue) siftUp(i int) {
	h := q.heap
	for i > 0 {
		parent := (i - 1) / degree
		if !h[i].Before(h[parent]) {
			break
		}
		h[i], h[parent] = h[parent], h[i]
		i = parent
	}
}

func (q *Queue) siftDown(i int) {
	h := q.heap
	n := len(h)
	for {
		first := degree*i + 1
		if first >= n {
			return
		}
		min := first
		last := first + degree
		if last > n {
			last = n
		}
		for c := first + 1; c < last; c++ {
			if h[c].Before(h[min]) {
				min = c
			}
		}
		if !h[min].Before(h[i]) {
			return
		}
		h[i], h[min] = h[min], h[i]
		i = min
	}
}
