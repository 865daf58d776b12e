package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"uk.ac.bris.cs/relaxation/config"
	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/transport"
)

func main() {
	pAddr := flag.String("port", "8030", "Port to listen on")
	configPath := flag.String("config", config.DefaultPath, "Path to the run configuration.")
	workers := flag.String("workers", "", "Comma-separated worker addresses. Defaults to the configured workers.")
	verbosity := flag.String("v", "info", "Log level: all, debug, info, warn, error or none (or 0-5).")
	flag.Parse()

	level, err := logging.ParseLevel(*verbosity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, level).Named("broker")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	addrs := cfg.Workers
	if *workers != "" {
		addrs = strings.Split(*workers, ",")
	}
	if len(addrs) == 0 {
		log.Errorf("no workers configured")
		os.Exit(1)
	}
	log.Infof("workers: %s", strings.Join(addrs, ", "))

	srv, err := transport.NewServer("broker", transport.NewBrokerOperations(addrs, log), log)
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
	<-interrupt
	log.Infof("shutting down")
	srv.Shutdown()
}
