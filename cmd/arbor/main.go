package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kanzl/arbor/pkg/cell"
	"github.com/kanzl/arbor/pkg/event"
	"github.com/kanzl/arbor/pkg/fvm"
	"github.com/kanzl/arbor/pkg/trace"
)

func main() {
	var (
		ncomp     = flag.Int("ncomp", 10, "compartments per cable segment")
		dt        = flag.Float64("dt", 0.025, "max timestep (ms)")
		tfinal    = flag.Float64("tfinal", 20.0, "simulated time (ms)")
		stimAmp   = flag.Float64("stim", 0.1, "stimulus amplitude (nA), 0 disables")
		stimDelay = flag.Float64("stim-delay", 1.0, "stimulus onset (ms)")
		stimDur   = flag.Float64("stim-dur", 10.0, "stimulus duration (ms)")
		synWeight = flag.Float64("syn-weight", 0, "synapse event weight (uS), 0 disables")
		synPeriod = flag.Float64("syn-period", 2.5, "synapse event period (ms)")
		probe     = flag.Int("probe", 0, "CV to record")
		every     = flag.Int("every", 40, "print every n-th sample")
		plotOut   = flag.String("plot", "", "write voltage trace PNG to this path")
		dbOut     = flag.String("db", "", "archive the trace in this SQLite file")
	)
	flag.Parse()

	c, err := buildCell(*ncomp, *stimAmp, *stimDelay, *stimDur, *synWeight > 0)
	if err != nil {
		log.Fatalf("building cell: %v", err)
	}

	sim, err := fvm.New(c)
	if err != nil {
		log.Fatalf("lowering cell: %v", err)
	}
	if *probe < 0 || *probe >= sim.Size() {
		log.Fatalf("probe CV %d out of range [0,%d)", *probe, sim.Size())
	}

	sim.Initialize()
	rec := trace.NewRecorder(*probe)
	sim.OnSample(rec.Observe)
	rec.Observe(sim.Time(), sim.Voltage())

	if *synWeight > 0 {
		gen := event.RegularGenerator{
			Start:  *stimDelay,
			Period: *synPeriod,
			Target: 0,
			Weight: float32(*synWeight),
		}
		event.Fill(sim.Queue(), gen, 0, *tfinal)
	}

	if err := sim.AdvanceTo(*tfinal, *dt); err != nil {
		log.Fatalf("advancing to t=%g: %v", *tfinal, err)
	}

	printTrace(rec, *probe, *every)

	if *plotOut != "" {
		if err := writePlot(rec, *plotOut); err != nil {
			log.Fatalf("writing plot: %v", err)
		}
		fmt.Printf("\nwrote %s\n", *plotOut)
	}
	if *dbOut != "" {
		store, err := trace.OpenStore(*dbOut)
		if err != nil {
			log.Fatalf("opening trace store: %v", err)
		}
		defer store.Close()
		id, err := store.SaveRun("arbor run", rec)
		if err != nil {
			log.Fatalf("archiving trace: %v", err)
		}
		fmt.Printf("archived run %d in %s\n", id, *dbOut)
	}
}

// buildCell assembles a ball-and-stick demo cell: an HH soma with a
// passive cable, a current clamp on the soma, and optionally a synapse
// at the far end of the cable.
func buildCell(ncomp int, stimAmp, stimDelay, stimDur float64, withSynapse bool) (*cell.Cell, error) {
	c := cell.New()

	soma, err := c.AddSoma(6.3)
	if err != nil {
		return nil, err
	}
	soma.AddMechanism("hh")

	dend, err := c.AddCable(0, 200.0, 0.5, 0.25, ncomp)
	if err != nil {
		return nil, err
	}
	dend.AddMechanism("pas")

	if stimAmp != 0 {
		c.AddStimulus(
			cell.Location{Segment: 0, Position: 0},
			cell.IClamp{Delay: stimDelay, Duration: stimDur, Amplitude: stimAmp},
		)
	}
	if withSynapse {
		c.AddSynapse(cell.Location{Segment: 1, Position: 1})
	}
	return c, nil
}

func printTrace(rec *trace.Recorder, probe, every int) {
	if every < 1 {
		every = 1
	}
	fmt.Printf("Voltage trace, CV %d:\n", probe)
	fmt.Println("   t (ms)     v (mV)")
	fmt.Println("---------------------")
	samples := rec.Samples()
	for i, s := range samples {
		if i%every == 0 || i == len(samples)-1 {
			fmt.Printf("%9.3f  %9.4f\n", s.Time, s.Voltage)
		}
	}
}

func writePlot(rec *trace.Recorder, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("membrane potential, CV %d", rec.CV())
	p.X.Label.Text = "t (ms)"
	p.Y.Label.Text = "v (mV)"

	samples := rec.Samples()
	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Time
		pts[i].Y = s.Voltage
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(plotter.NewGrid(), line)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return err
	}
	return nil
}

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}
