package transport

import (
	"fmt"
	"net/rpc"
	"time"

	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/relax"
	"uk.ac.bris.cs/relaxation/stubs"
)

// DefaultInterval is how often a Controller polls the broker for progress.
const DefaultInterval = 2 * time.Second

// Controller asks a remote broker to relax a grid and relays its progress.
type Controller struct {
	Addr     string
	Interval time.Duration
	Log      *logging.Logger
}

// Run blocks until the broker returns the converged grid. Progress is polled
// every Interval and reported as IterationComplete events; events, if non-nil,
// is closed on return.
func (c Controller) Run(p relax.Params, events chan<- relax.Event) (*relax.Result, error) {
	send := func(e relax.Event) {
		if events != nil {
			events <- e
		}
	}
	done := func() {
		if events != nil {
			close(events)
		}
	}
	if err := p.Validate(); err != nil {
		done()
		return nil, err
	}
	log := c.Log.Named("controller")
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	client, err := rpc.Dial("tcp", c.Addr)
	if err != nil {
		done()
		return nil, fmt.Errorf("transport: connect to broker at %s: %w", c.Addr, err)
	}
	defer client.Close()

	start := time.Now()
	send(relax.StateChange{Iteration: 0, NewState: relax.Executing})
	call := client.Go(stubs.RunHandler, stubs.RunRequest{P: ToParam(p)}, new(stubs.RunResponse), nil)

	reportTime := time.NewTicker(interval)
	defer reportTime.Stop()
	reported := 0
	for {
		select {
		case <-call.Done:
			if call.Error != nil {
				done()
				return nil, fmt.Errorf("transport: broker run: %w", call.Error)
			}
			response := call.Reply.(*stubs.RunResponse)
			grid := &relax.Grid{Size: response.Size, Cells: response.Cells}
			log.Infof("broker converged after %d iterations on %d workers", response.Iterations, response.Workers)
			send(relax.StateChange{Iteration: response.Iterations, NewState: relax.Converged})
			send(relax.FinalIterationComplete{Iterations: response.Iterations, Grid: grid})
			done()
			return &relax.Result{
				Grid:       grid,
				Iterations: response.Iterations,
				Workers:    response.Workers,
				Elapsed:    time.Since(start),
			}, nil
		case <-reportTime.C:
			progress := new(stubs.ProgressResponse)
			if err := client.Call(stubs.ProgressHandler, stubs.ProgressRequest{}, progress); err != nil {
				log.Warnf("progress: %v", err)
				continue
			}
			if progress.Running && progress.Iteration > reported {
				reported = progress.Iteration
				send(relax.IterationComplete{Iteration: progress.Iteration, Delta: progress.Delta})
			}
		}
	}
}
