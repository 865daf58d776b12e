package transport

import (
	"errors"
	"sync"

	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/relax"
	"uk.ac.bris.cs/relaxation/stubs"
)

// ErrBusy is returned when a controller asks a broker that is already running.
var ErrBusy = errors.New("transport: broker is already running a relaxation")

// BrokerOperations is the RPC receiver of the coordinating process. It owns
// the canonical grid of one run at a time and relaxes it over its workers.
type BrokerOperations struct {
	workers []string
	log     *logging.Logger

	mu        sync.Mutex
	running   bool
	iteration int
	delta     float64
}

func NewBrokerOperations(workers []string, log *logging.Logger) *BrokerOperations {
	return &BrokerOperations{workers: workers, log: log}
}

func (b *BrokerOperations) Run(req stubs.RunRequest, res *stubs.RunResponse) (err error) {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return ErrBusy
	}
	b.running, b.iteration, b.delta = true, 0, 0
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	if len(b.workers) == 0 {
		return relax.ErrNoRanks
	}
	p, err := FromParam(req.P, len(b.workers), b.log)
	if err != nil {
		return err
	}
	group, err := Dial(b.workers, b.log)
	if err != nil {
		return err
	}

	events := make(chan relax.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if e, ok := event.(relax.IterationComplete); ok {
				b.mu.Lock()
				b.iteration, b.delta = e.Iteration, e.Delta
				b.mu.Unlock()
			}
		}
	}()

	result, err := relax.RunDistributed(p, group, events)
	<-done
	if err != nil {
		b.log.Errorf("run failed: %v", err)
		return err
	}
	b.log.Infof("converged after %d iterations on %d workers in %s", result.Iterations, result.Workers, result.Elapsed)

	res.Size = result.Grid.Size
	res.Cells = result.Grid.Cells
	res.Iterations = result.Iterations
	res.Workers = result.Workers
	return
}

func (b *BrokerOperations) Progress(req stubs.ProgressRequest, res *stubs.ProgressResponse) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	res.Iteration = b.iteration
	res.Delta = b.delta
	res.Running = b.running
	return
}
