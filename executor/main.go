package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brensch/c4killer/agent"
	"github.com/brensch/c4killer/executor/selfplay"
	"github.com/brensch/c4killer/game"
	"github.com/brensch/c4killer/store"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

var totalMoves atomic.Int64
var totalBoards atomic.Int64
var totalGames atomic.Int64

type GameUpdate struct {
	WorkerID int
	Result   selfplay.GameResult
	Rows     int
}

type gameWriteRequest struct {
	rows []store.MoveRow
}

type model struct {
	gamesPlayed int
	redWins     int
	yellowWins  int
	draws       int
	totalRows   int
	moves       int64
	boards      int64
	startTime   time.Time
	recentGames []string
	updates     chan GameUpdate
}

func initialModel(updates chan GameUpdate) model {
	return model{
		startTime: time.Now(),
		updates:   updates,
	}
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func waitForUpdate(updates chan GameUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		m.moves = totalMoves.Load()
		m.boards = totalBoards.Load()
		return m, tickCmd()
	case GameUpdate:
		m.gamesPlayed++
		m.totalRows += msg.Rows
		switch msg.Result.Winner {
		case game.Red:
			m.redWins++
		case game.Yellow:
			m.yellowWins++
		default:
			m.draws++
		}
		logMsg := fmt.Sprintf("Worker %d: Winner %s, Steps %d, Rows %d", msg.WorkerID, msg.Result.Winner, msg.Result.Steps, msg.Rows)
		m.recentGames = append([]string{logMsg}, m.recentGames...)
		if len(m.recentGames) > 10 {
			m.recentGames = m.recentGames[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec := float64(m.gamesPlayed) / duration.Seconds()
	movesPerSec := float64(m.moves) / duration.Seconds()
	boardsPerSec := float64(m.boards) / duration.Seconds()
	if duration.Seconds() < 1 {
		gamesPerSec = 0
		movesPerSec = 0
		boardsPerSec = 0
	}

	s := fmt.Sprintf("Games Played:   %d (red %d / yellow %d / draw %d)\n", m.gamesPlayed, m.redWins, m.yellowWins, m.draws)
	s += fmt.Sprintf("Total Rows:     %d\n", m.totalRows)
	s += fmt.Sprintf("Total Moves:    %d\n", m.moves)
	s += fmt.Sprintf("Total Boards:   %d\n", m.boards)
	s += fmt.Sprintf("Duration:       %s\n", duration.Round(time.Second))
	s += fmt.Sprintf("Games/Sec:      %.2f\n", gamesPerSec)
	s += fmt.Sprintf("Moves/Sec:      %.2f\n", movesPerSec)
	s += fmt.Sprintf("Boards/Sec:     %.0f\n\n", boardsPerSec)

	s += "Recent Games:\n"
	for _, g := range m.recentGames {
		s += g + "\n"
	}

	s += "\nPress q to quit.\n"
	return s
}

// loadPlayer reads a YAML agent config when path is set and applies the
// depth override when it is non-negative.
func loadPlayer(path string, depth int, pruning bool, name string) (agent.Config, error) {
	cfg := agent.DefaultConfig()
	cfg.Name = name
	cfg.Pruning = pruning
	if path != "" {
		loaded, err := agent.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if depth >= 0 {
		cfg.Depth = depth
	}
	return cfg, cfg.Validate()
}

func main() {
	outDir := flag.String("out-dir", "data/generated", "Output directory for recorded game parquet batches")
	workers := flag.Int("workers", 8, "Number of self-play workers")
	gamesPerFlush := flag.Int("games-per-flush", 50, "Number of games to buffer per parquet flush")
	maxGames := flag.Int64("max-games", 0, "If > 0, stop after playing this many games (across all workers)")
	size := flag.Int("size", 8, "Board size N (N x N)")
	openingPlies := flag.Int("opening-plies", game.DefaultOpeningSettings.Plies, "Random moves played before the agents take over")
	redConfig := flag.String("red-config", "", "YAML agent config for red (optional)")
	yellowConfig := flag.String("yellow-config", "", "YAML agent config for yellow (optional)")
	redDepth := flag.Int("red-depth", -1, "Override red search depth (-1 keeps the config value)")
	yellowDepth := flag.Int("yellow-depth", -1, "Override yellow search depth (-1 keeps the config value)")
	pruning := flag.Bool("pruning", true, "Enable alpha-beta pruning when no config file is given")
	useTUI := flag.Bool("tui", false, "Show a live dashboard instead of periodic log lines")
	verbose := flag.Bool("verbose", false, "Trace every board of worker 0")
	flag.Parse()

	red, err := loadPlayer(*redConfig, *redDepth, *pruning, "red")
	if err != nil {
		log.Fatalf("Red agent config: %v", err)
	}
	yellow, err := loadPlayer(*yellowConfig, *yellowDepth, *pruning, "yellow")
	if err != nil {
		log.Fatalf("Yellow agent config: %v", err)
	}
	if _, err := game.NewBoard(*size); err != nil {
		log.Fatalf("Board size: %v", err)
	}
	players := selfplay.Players{Red: red, Yellow: yellow}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	if *useTUI {
		// Keep log lines out of the dashboard.
		f, err := os.OpenFile("executor.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	log.Printf("Starting self-play with %d workers: red=%s depth=%d pruning=%v, yellow=%s depth=%d pruning=%v, size=%d",
		*workers, red.Name, red.Depth, red.Pruning, yellow.Name, yellow.Depth, yellow.Pruning, *size)

	updates := make(chan GameUpdate, *workers)
	writeReqs := make(chan gameWriteRequest, (*workers)*4)

	writerDone := make(chan struct{})
	go func() {
		parquetWriterLoop(*outDir, *gamesPerFlush, writeReqs)
		close(writerDone)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < *workers; i++ {
		workerID := i
		g.Go(func() error {
			log.Printf("[Worker %d] started", workerID)
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)*1000003))
			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}

				opts := selfplay.PlayGameOptions{
					Size:    *size,
					Opening: game.OpeningSettings{Plies: *openingPlies},
					Rng:     rng,
					Verbose: *verbose && workerID == 0,
					OnStep:  func() { totalMoves.Add(1) },
				}
				rows, result, err := selfplay.PlayGame(gctx, workerID, players, opts)
				if err != nil {
					if gctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("worker %d: %w", workerID, err)
				}
				for _, r := range rows {
					totalBoards.Add(r.Boards)
				}

				total := totalGames.Add(1)
				if *maxGames > 0 && total > *maxGames {
					return nil
				}
				writeReqs <- gameWriteRequest{rows: rows}

				// Avoid blocking shutdown if the UI loop stops consuming.
				select {
				case updates <- GameUpdate{WorkerID: workerID, Result: result, Rows: len(rows)}:
				default:
				}

				if *maxGames > 0 && total >= *maxGames {
					// Cancel the whole run after the target number of games.
					cancel()
				}
			}
		})
	}

	var runErr error
	if *useTUI {
		p := tea.NewProgram(initialModel(updates), tea.WithAltScreen())
		go func() {
			_ = g.Wait()
			p.Quit()
		}()
		if _, err := p.Run(); err != nil {
			log.Printf("Dashboard error: %v", err)
		}
		// Closing the dashboard stops the run; wait for games in flight.
		cancel()
		runErr = g.Wait()
	} else {
		workersDone := make(chan error, 1)
		go func() {
			workersDone <- g.Wait()
		}()
		runErr = logLoop(ctx, updates, workersDone)
	}

	close(writeReqs)
	<-writerDone
	if runErr != nil {
		log.Fatalf("Self-play failed: %v", runErr)
	}
	log.Printf("Shutdown complete: final parquet flush done (games=%d)", totalGames.Load())
}

// logLoop prints game results and throughput until the workers are done.
func logLoop(ctx context.Context, updates <-chan GameUpdate, workersDone <-chan error) error {
	startTime := time.Now()
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	shutdownLogged := false
	for {
		select {
		case err := <-workersDone:
			return err
		case <-ctx.Done():
			if !shutdownLogged {
				log.Printf("Shutdown requested; waiting for workers to finish current games...")
				shutdownLogged = true
			}
			return <-workersDone
		case update := <-updates:
			log.Printf("[Worker %d] Game %s: Winner %s, Steps %d, Rows %d", update.WorkerID, update.Result.GameID, update.Result.Winner, update.Result.Steps, update.Rows)
		case <-ticker.C:
			duration := time.Since(startTime)
			moves := totalMoves.Load()
			boards := totalBoards.Load()
			log.Printf("Stats: Games: %d, Moves/s: %.2f, Boards/s: %.0f", totalGames.Load(), float64(moves)/duration.Seconds(), float64(boards)/duration.Seconds())
		}
	}
}

func parquetWriterLoop(outDir string, gamesPerFlush int, in <-chan gameWriteRequest) {
	if gamesPerFlush <= 0 {
		gamesPerFlush = 50
	}

	pendingRows := make([]store.MoveRow, 0, 64*gamesPerFlush)
	pendingGames := 0

	for req := range in {
		if len(req.rows) == 0 {
			continue
		}
		pendingRows = append(pendingRows, req.rows...)
		pendingGames++

		if pendingGames < gamesPerFlush {
			continue
		}

		outPath, err := store.WriteBatchParquetAtomic(outDir, pendingRows)
		if err != nil {
			log.Printf("Parquet flush failed (games=%d rows=%d): %v", pendingGames, len(pendingRows), err)
		} else {
			log.Printf("Parquet flush ok: %s (games=%d rows=%d)", outPath, pendingGames, len(pendingRows))
		}

		pendingRows = pendingRows[:0]
		pendingGames = 0
	}

	if pendingGames > 0 && len(pendingRows) > 0 {
		outPath, err := store.WriteBatchParquetAtomic(outDir, pendingRows)
		if err != nil {
			log.Printf("Parquet final flush failed (games=%d rows=%d): %v", pendingGames, len(pendingRows), err)
			return
		}
		log.Printf("Parquet final flush ok: %s (games=%d rows=%d)", outPath, pendingGames, len(pendingRows))
	}
}
