package sdl

import (
	"fmt"
	"time"

	"uk.ac.bris.cs/relaxation/relax"
)

const frameDelay = 16 * time.Millisecond

// Run draws every Snapshot and the final grid of a run until the window is
// closed. It must be called from the main goroutine. Events keep being drained
// after the window closes so the run is never blocked, and the final grid is
// returned once the channel closes.
func Run(size, side int, events <-chan relax.Event) (*relax.Grid, error) {
	w, err := NewWindow(size, side)
	if err != nil {
		for range events {
		}
		return nil, err
	}

	var final *relax.Grid
	open := true
	for events != nil || open {
		if open && quitRequested() {
			w.Destroy()
			open = false
		}
		select {
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			var g *relax.Grid
			switch e := e.(type) {
			case relax.Snapshot:
				g = e.Grid
			case relax.FinalIterationComplete:
				g = e.Grid
				final = e.Grid
			}
			if g != nil && open {
				w.SetTitle(fmt.Sprintf("Relaxation: %s", e))
				if err := w.Draw(g); err != nil {
					w.Destroy()
					open = false
				}
			}
		case <-time.After(frameDelay):
		}
	}
	return final, nil
}
