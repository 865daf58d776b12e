package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"uk.ac.bris.cs/relaxation/config"
	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/relax"
)

// sample is the best of several timed runs at one worker count.
type sample struct {
	workers    int
	elapsed    time.Duration
	iterations int
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the run configuration.")
	size := flag.Int("size", 200, "Grid dimension.")
	precision := flag.Float64("precision", 0.001, "Convergence precision.")
	maxWorkers := flag.Int("max", 16, "Largest worker count; counts double from 1.")
	repeats := flag.Int("repeats", 3, "Runs per worker count; the fastest is kept.")
	out := flag.String("out", "bench.png", "Chart output path.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	cfg.Size, cfg.Precision, cfg.SnapshotEvery = *size, *precision, 0
	level, err := cfg.Level()
	if err != nil {
		fail(err)
	}
	p, err := cfg.Params(logging.New(os.Stderr, level))
	if err != nil {
		fail(err)
	}

	serial, err := best(*repeats, func() (*relax.Result, error) { return relax.RunSerial(p, nil) })
	if err != nil {
		fail(err)
	}
	fmt.Printf("serial      %12v  %d iterations\n", serial.elapsed, serial.iterations)

	var samples []sample
	for w := 1; w <= *maxWorkers; w *= 2 {
		p.Threads = w
		s, err := best(*repeats, func() (*relax.Result, error) { return relax.Run(p, nil) })
		if err != nil {
			fail(err)
		}
		samples = append(samples, s)
		fmt.Printf("%2d workers  %12v  speedup %.2f\n", s.workers, s.elapsed, speedup(serial.elapsed, s.elapsed))
	}

	f, err := os.Create(*out)
	if err != nil {
		fail(err)
	}
	defer f.Close()
	if err := renderChart(f, fmt.Sprintf("%d×%d, precision %g", p.Size, p.Size, p.Precision), serial.elapsed, samples); err != nil {
		fail(err)
	}
	fmt.Println("Wrote", *out)
}

func best(repeats int, run func() (*relax.Result, error)) (sample, error) {
	var s sample
	for i := 0; i < repeats || i == 0; i++ {
		res, err := run()
		if err != nil {
			return s, err
		}
		if i == 0 || res.Elapsed < s.elapsed {
			s = sample{workers: res.Workers, elapsed: res.Elapsed, iterations: res.Iterations}
		}
	}
	return s, nil
}

func speedup(serial, parallel time.Duration) float64 {
	if parallel <= 0 {
		return 0
	}
	return float64(serial) / float64(parallel)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// renderChart plots run time against worker count with the serial time as a
// flat reference line, and writes it as a PNG.
func renderChart(w io.Writer, title string, serial time.Duration, samples []sample) error {
	if len(samples) == 0 {
		return fmt.Errorf("bench: no samples to plot")
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	base := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s.workers)
		ys[i] = millis(s.elapsed)
		base[i] = millis(serial)
	}
	if len(samples) == 1 {
		// A continuous series needs two points.
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
		base = append(base, base[0])
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 450,
		XAxis: chart.XAxis{
			Name:  "workers",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "time (ms)",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "parallel",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "serial",
				XValues: xs,
				YValues: base,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 255, G: 165, B: 0, A: 255}, StrokeWidth: 2.0, StrokeDashArray: []float64{5, 5}},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
