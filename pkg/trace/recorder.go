// Package trace records voltage samples from a running cell and writes
// them to CSV or a SQLite archive.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Sample is one probe reading.
type Sample struct {
	Time    float64 // ms
	Voltage float64 // mV
}

// Recorder collects the voltage of one CV at every substep. Its Observe
// method matches fvm's sampler callback.
type Recorder struct {
	cv      int
	samples []Sample
}

// NewRecorder probes the given CV.
func NewRecorder(cv int) *Recorder {
	return &Recorder{cv: cv}
}

// Observe appends a sample. It assumes cv is within range; the probed
// cell validates its own size at construction.
func (r *Recorder) Observe(t float64, v []float64) {
	r.samples = append(r.samples, Sample{Time: t, Voltage: v[r.cv]})
}

// CV returns the probed compartment.
func (r *Recorder) CV() int { return r.cv }

// Samples returns the collected readings in time order.
func (r *Recorder) Samples() []Sample { return r.samples }

// Reset drops all collected samples.
func (r *Recorder) Reset() { r.samples = r.samples[:0] }

// WriteCSV writes the samples as "t_ms,v_mv" rows with a header.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t_ms", "v_mv"}); err != nil {
		return fmt.Errorf("trace: writing header: %w", err)
	}
	for _, s := range r.samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'g', -1, 64),
			strconv.FormatFloat(s.Voltage, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("trace: writing sample: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
