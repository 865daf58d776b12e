package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/transport"
)

func main() {
	pAddr := flag.String("port", "8040", "Port to listen on")
	once := flag.Bool("once", false, "Exit after the first run is finished.")
	verbosity := flag.String("v", "info", "Log level: all, debug, info, warn, error or none (or 0-5).")
	flag.Parse()

	level, err := logging.ParseLevel(*verbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, level).Named("worker:" + *pAddr)

	ops := transport.NewRelaxOperations(log)
	srv, err := transport.NewServer("worker", ops, log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	if err := srv.Serve(":" + *pAddr); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	for {
		select {
		case n := <-ops.Done():
			log.Infof("run finished after %d iterations", n)
			if *once {
				srv.Shutdown()
				return
			}
		case <-interrupt:
			log.Infof("shutting down")
			srv.Shutdown()
			return
		}
	}
}
