// Command bench runs the agent on a set of positions with and without
// alpha-beta pruning and reports the chosen column, value and board counts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/brensch/c4killer/agent"
	"github.com/brensch/c4killer/positions"
)

func main() {
	source := flag.String("positions", "", "Positions file (.txt/.html) or http(s) URL")
	minDepth := flag.Int("min-depth", 1, "Smallest depth to search")
	maxDepth := flag.Int("max-depth", 4, "Largest depth to search")
	flag.Parse()

	if *source == "" {
		log.Fatalf("-positions is required")
	}
	if *minDepth < 0 || *maxDepth < *minDepth {
		log.Fatalf("invalid depth range %d..%d", *minDepth, *maxDepth)
	}

	list, err := positions.Load(context.Background(), *source)
	if err != nil {
		log.Fatalf("Failed to load positions: %v", err)
	}
	log.Printf("Loaded %d positions from %s", len(list), *source)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POSITION\tDEPTH\tCOLUMN\tVALUE\tBOARDS (FULL)\tBOARDS (PRUNED)\tTIME (FULL)\tTIME (PRUNED)")

	mismatches := 0
	for _, p := range list {
		for depth := *minDepth; depth <= *maxDepth; depth++ {
			full, err := decide(p, depth, false)
			if err != nil {
				log.Printf("[%s] depth %d: %v", p.Name, depth, err)
				continue
			}
			pruned, err := decide(p, depth, true)
			if err != nil {
				log.Printf("[%s] depth %d: %v", p.Name, depth, err)
				continue
			}
			if full.Column != pruned.Column || full.Value != pruned.Value {
				mismatches++
				log.Printf("[%s] depth %d: pruning changed the result: full=(%d,%d) pruned=(%d,%d)",
					p.Name, depth, full.Column, full.Value, pruned.Column, pruned.Value)
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%v\t%v\n",
				p.Name, depth, pruned.Column, pruned.Value, full.Boards, pruned.Boards, full.Elapsed, pruned.Elapsed)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("write: %v", err)
	}
	if mismatches > 0 {
		log.Fatalf("%d pruning mismatches", mismatches)
	}
}

func decide(p positions.Position, depth int, pruning bool) (agent.Decision, error) {
	cfg := agent.DefaultConfig()
	cfg.Depth = depth
	cfg.Pruning = pruning
	a, err := agent.New(cfg)
	if err != nil {
		return agent.Decision{}, err
	}
	return a.Decide(p.Board, p.ToMove)
}
