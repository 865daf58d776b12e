package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"uk.ac.bris.cs/relaxation/config"
	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/relax"
	"uk.ac.bris.cs/relaxation/sdl"
	"uk.ac.bris.cs/relaxation/transport"
	"uk.ac.bris.cs/relaxation/view"
)

func init() {
	// SDL must own the main thread.
	runtime.LockOSThread()
}

type outcome struct {
	res *relax.Result
	err error
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the run configuration.")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit.")
	mode := flag.String("mode", "parallel", "One of serial, parallel, distributed or remote.")
	broker := flag.String("broker", "", "Broker address for remote mode. Defaults to the configured broker.")
	size := flag.Int("size", 0, "Grid dimension. Defaults to the configured size.")
	precision := flag.Float64("precision", 0, "Convergence precision. Defaults to the configured precision.")
	threads := flag.Int("threads", 0, "Workers (or ranks). Defaults to the configured threads.")
	boundary := flag.String("boundary", "", "Initial edge convention: top-left or all-edges.")
	fill := flag.String("fill", "", "Initial interior values: zero or random.")
	seed := flag.Int64("seed", 0, "Seed for random fill.")
	verbosity := flag.String("v", "", "Log level: all, debug, info, warn, error or none (or 0-5).")
	tui := flag.Bool("tui", false, "Show live progress in the terminal.")
	vis := flag.Bool("vis", false, "Show the grid as a heat map in an SDL window.")
	verify := flag.Bool("verify", false, "Compare the result with the exact solution.")
	printGrid := flag.Bool("print", false, "Print the relaxed grid.")
	flag.Parse()

	if *writeConfig {
		if err := config.WriteDefault(*configPath); err != nil {
			fail(err)
		}
		fmt.Println("Wrote", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			cfg.Size = *size
		case "precision":
			cfg.Precision = *precision
		case "threads":
			cfg.Threads = *threads
		case "boundary":
			cfg.Boundary = *boundary
		case "fill":
			cfg.Fill = *fill
		case "seed":
			cfg.Seed = *seed
		case "v":
			cfg.Verbosity = *verbosity
		case "broker":
			cfg.Broker = *broker
		}
	})
	if *vis && cfg.SnapshotEvery == 0 {
		cfg.SnapshotEvery = 1
	}

	level, err := cfg.Level()
	if err != nil {
		fail(err)
	}
	log := logging.New(os.Stderr, level)
	p, err := cfg.Params(log)
	if err != nil {
		fail(err)
	}

	var events chan relax.Event
	if *tui || *vis {
		events = make(chan relax.Event, 1000)
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := start(*mode, cfg, p, events)
		done <- outcome{res, err}
	}()

	switch {
	case *vis:
		if _, err := sdl.Run(p.Size, 800, events); err != nil {
			log.Warnf("visualiser: %v", err)
		}
	case *tui:
		if _, err := view.Watch(fmt.Sprintf("Relaxing %d×%d (%s)", p.Size, p.Size, *mode), p.Precision, events); err != nil {
			log.Warnf("progress view: %v", err)
		}
	}

	out := <-done
	if out.err != nil {
		fail(out.err)
	}
	fmt.Print(view.Summary(*mode, p, out.res))
	if *printGrid {
		fmt.Print(view.Matrix(out.res.Grid))
	}
	if *verify {
		exact, err := relax.Exact(p)
		if err != nil {
			fail(err)
		}
		fmt.Print(view.Verification(out.res.Grid.MaxDiff(exact), p.Precision))
	}
}

func start(mode string, cfg config.Config, p relax.Params, events chan relax.Event) (*relax.Result, error) {
	switch mode {
	case "serial":
		return relax.RunSerial(p, events)
	case "parallel":
		return relax.Run(p, events)
	case "distributed":
		return relax.RunDistributed(p, relax.NewLocalSynchronizer(p.Threads), events)
	case "remote":
		c := transport.Controller{Addr: cfg.Broker, Interval: transport.DefaultInterval, Log: p.Log}
		return c.Run(p, events)
	}
	if events != nil {
		close(events)
	}
	return nil, fmt.Errorf("unknown mode %q", mode)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
