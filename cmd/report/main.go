// Command report prints agent and depth summaries of self-play parquet data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/brensch/c4killer/report"
)

func main() {
	dataDir := flag.String("data-dir", "data/generated", "Comma-separated parquet roots")
	timeout := flag.Duration("timeout", 2*time.Minute, "Query timeout")
	flag.Parse()

	db, err := report.Open(strings.Split(*dataDir, ","))
	if err != nil {
		log.Fatalf("Failed to open data: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	total, err := report.GamesTotal(ctx, db)
	if err != nil {
		log.Fatalf("Failed to count games: %v", err)
	}
	agents, err := report.Agents(ctx, db)
	if err != nil {
		log.Fatalf("Failed to summarize agents: %v", err)
	}
	depths, err := report.Depths(ctx, db)
	if err != nil {
		log.Fatalf("Failed to summarize depths: %v", err)
	}
	log.Printf("Queried %d games in %v", total, time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\tCOLOR\tDEPTH\tPRUNING\tGAMES\tWINS\tLOSSES\tDRAWS\tMOVES\tAVG BOARDS\tAVG MS\tMAX MS")
	for _, s := range agents {
		color := "red"
		if s.Color < 0 {
			color = "yellow"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%d\t%d\t%d\t%d\t%d\t%.1f\t%.3f\t%.3f\n",
			s.Agent, color, s.Depth, s.Pruning, s.Games, s.Wins, s.Losses, s.Draws, s.Moves, s.AvgBoards, s.AvgElapsedMs, s.MaxElapsedMs)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "DEPTH\tPRUNING\tMOVES\tAVG BOARDS\tAVG MS")
	for _, s := range depths {
		fmt.Fprintf(w, "%d\t%v\t%d\t%.1f\t%.3f\n", s.Depth, s.Pruning, s.Moves, s.AvgBoards, s.AvgElapsedMs)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("write: %v", err)
	}
}
