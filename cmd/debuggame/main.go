// Command debuggame plays traced games between two agents, prints every
// position and decision, and streams the moves into one parquet file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/brensch/c4killer/agent"
	"github.com/brensch/c4killer/executor/selfplay"
	"github.com/brensch/c4killer/game"
	"github.com/brensch/c4killer/store"
)

func main() {
	outDir := flag.String("out-dir", filepath.Join("debug_games"), "Output directory for debug games")
	size := flag.Int("size", 8, "Board size")
	openingPlies := flag.Int("opening-plies", 2, "Random plies before the agents take over")
	redDepth := flag.Int("red-depth", 4, "Search depth of red")
	yellowDepth := flag.Int("yellow-depth", 4, "Search depth of yellow")
	pruning := flag.Bool("pruning", true, "Use alpha-beta pruning")
	seed := flag.Int64("seed", 0, "Opening seed (0 = time based)")
	games := flag.Int("games", 1, "Number of games to play")
	timeout := flag.Duration("timeout", 5*time.Minute, "Give up after this long")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	red := agent.DefaultConfig()
	red.Name = "red"
	red.Depth = *redDepth
	red.Pruning = *pruning
	yellow := red
	yellow.Name = "yellow"
	yellow.Depth = *yellowDepth

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	bw, err := store.NewBatchWriter(*outDir)
	if err != nil {
		log.Fatalf("Failed to open batch writer: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	log.Printf("Generating %d debug game(s): size=%d red depth=%d yellow depth=%d pruning=%v seed=%d", *games, *size, *redDepth, *yellowDepth, *pruning, *seed)

	for i := 0; i < *games; i++ {
		rows, result, err := selfplay.PlayGame(ctx, 0, selfplay.Players{Red: red, Yellow: yellow}, selfplay.PlayGameOptions{
			Size:    *size,
			Opening: game.OpeningSettings{Plies: *openingPlies},
			Rng:     rng,
			Verbose: true,
		})
		if err != nil {
			log.Fatalf("Failed to generate debug game: %v", err)
		}

		for _, r := range rows {
			fmt.Printf("  Turn %3d | %-6s | column %d | value %d | %d boards | %v\n",
				r.Turn, r.Agent, r.Column, r.Value, r.Boards, time.Duration(r.ElapsedNs))
		}
		log.Printf("Game %s complete: %d moves, winner: %s", result.GameID, result.Steps, result.Winner)

		if err := bw.WriteGame(rows); err != nil {
			log.Fatalf("Failed to write debug game: %v", err)
		}
	}

	parquetPath, nRows, nGames, err := bw.Finalize()
	if err != nil {
		log.Fatalf("Failed to finalize parquet: %v", err)
	}
	log.Printf("Debug games written to: %s (%d games, %d rows)", parquetPath, nGames, nRows)
}
