// 3 Mar 2026

/*
Surpass runs a coarse-grained polymer Monte Carlo simulation described
by a YAML configuration file. The configuration names the chains,
the box, the energy terms, the movers and the output files; see
pkg/cfg for the full list of fields.

Usage:

	surpass config.yaml

An interrupt (ctrl-C) stops the trajectory cleanly: the current outer
cycle finishes and the observers are flushed.
*/
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dgront/surpass/pkg/cfg"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("the path of the configuration file must be the only argument")
	}

	log.Printf("Reading configuration file `%s`\n", os.Args[1])
	c, err := cfg.New(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	sim, err := c.Build()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Built %d chains, %d beads, box side %.1f\n",
		sim.Sys.CountChains(), sim.Sys.CountAtoms(), sim.Sys.Space().BoxSide())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Running %d x %d steps at T = %g\n", c.OuterSteps, c.InnerSteps, c.Temperature)
	if err := sim.Run(ctx); err != nil {
		if ctx.Err() != nil {
			log.Printf("Interrupted: %v", err)
		} else {
			log.Fatal(err)
		}
	}

	log.Printf("Final energy %g\n", sim.Proto.Energy())
	for i := 0; i < sim.Proto.CountMovers(); i++ {
		st := sim.Proto.MoverStats(i)
		log.Printf("%-12s acceptance %.3f (%d tried)\n", sim.Proto.Mover(i).Name(),
			st.SuccessRate(), st.NAccepted+st.NRejected)
	}
	if n, last := sim.Proto.ObserverErrors(); n > 0 {
		log.Printf("%d observer errors, last: %v", n, last)
	}
	log.Println("Done")
}
