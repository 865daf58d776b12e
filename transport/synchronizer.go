package transport

import (
	"errors"
	"fmt"
	"net/rpc"

	"golang.org/x/sync/errgroup"

	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/relax"
	"uk.ac.bris.cs/relaxation/stubs"
)

// RPCSynchronizer drives one worker process per rank over net/rpc. Rank i is
// the i-th address it was dialled with.
type RPCSynchronizer struct {
	clients    []*rpc.Client
	log        *logging.Logger
	iterations int
	finished   bool
}

// Dial connects to every worker. Failing to reach any one of them fails the
// whole group; connections already made are closed again.
func Dial(addrs []string, log *logging.Logger) (*RPCSynchronizer, error) {
	if len(addrs) == 0 {
		return nil, relax.ErrNoRanks
	}
	s := &RPCSynchronizer{log: log.Named("rpc-sync")}
	for rank, addr := range addrs {
		client, err := rpc.Dial("tcp", addr)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("transport: connect to rank %d at %s: %w", rank, addr, err)
		}
		s.log.Debugf("connected to rank %d at %s", rank, addr)
		s.clients = append(s.clients, client)
	}
	return s, nil
}

func (s *RPCSynchronizer) Ranks() int { return len(s.clients) }

// Exchange calls every rank concurrently and puts the replies back in rank order.
func (s *RPCSynchronizer) Exchange(sets []relax.WorkingSet) ([]relax.Relaxed, error) {
	if s.finished {
		return nil, relax.ErrClosed
	}
	if len(sets) > len(s.clients) {
		return nil, fmt.Errorf("transport: %d working sets for %d ranks", len(sets), len(s.clients))
	}

	results := make([]relax.Relaxed, len(sets))
	var group errgroup.Group
	for i, set := range sets {
		i, set := i, set
		group.Go(func() error {
			request := stubs.RelaxRequest{
				Rank:      set.Rank,
				First:     set.First,
				Size:      set.Size,
				Precision: set.Precision,
				Cells:     set.Cells,
			}
			response := new(stubs.RelaxResponse)
			if err := s.clients[set.Rank].Call(stubs.RelaxHandler, request, response); err != nil {
				return fmt.Errorf("rank %d: %w", set.Rank, err)
			}
			if response.Rank != set.Rank {
				return fmt.Errorf("rank %d answered as rank %d", set.Rank, response.Rank)
			}
			results[i] = relax.Relaxed{
				Rank:      response.Rank,
				Cells:     response.Cells,
				Converged: response.Converged,
				Delta:     response.Delta,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	s.iterations++
	return results, nil
}

func (s *RPCSynchronizer) ReduceAnd(flags []bool) bool {
	for _, ok := range flags {
		if !ok {
			return false
		}
	}
	return true
}

// Finish tells every rank the run is over and hangs up.
func (s *RPCSynchronizer) Finish() error {
	if s.finished {
		return nil
	}
	s.finished = true
	var errs []error
	for rank, client := range s.clients {
		response := new(stubs.FinishResponse)
		if err := client.Call(stubs.FinishHandler, stubs.FinishRequest{Iterations: s.iterations}, response); err != nil {
			errs = append(errs, fmt.Errorf("rank %d: %w", rank, err))
			continue
		}
		s.log.Debugf("rank %d relaxed %d working sets", rank, response.Relaxed)
	}
	s.close()
	return errors.Join(errs...)
}

func (s *RPCSynchronizer) close() {
	for _, client := range s.clients {
		client.Close()
	}
}
