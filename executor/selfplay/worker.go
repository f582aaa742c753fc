package selfplay

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/brensch/c4killer/agent"
	"github.com/brensch/c4killer/game"
	"github.com/brensch/c4killer/rules"
	"github.com/brensch/c4killer/store"
	"github.com/google/uuid"
)

// Source tags rows produced by self-play.
const Source = "selfplay"

type GameResult struct {
	GameID string
	Winner game.Cell
	Steps  int
}

// Players configures the two sides of a game. Red moves first.
type Players struct {
	Red    agent.Config
	Yellow agent.Config
}

// PlayGameOptions controls board size, opening and tracing of one game.
type PlayGameOptions struct {
	Size    int
	Opening game.OpeningSettings
	Rng     *rand.Rand
	Verbose bool
	OnStep  func()
}

// PlayGame plays one game between fresh agents built from players.
//
// Opening moves are random and are not recorded; every agent decision after
// that becomes one row. Outcomes are filled in once the game completes. If ctx
// is cancelled the partial game is discarded and ctx.Err() is returned.
func PlayGame(ctx context.Context, workerID int, players Players, opts PlayGameOptions) ([]store.MoveRow, GameResult, error) {
	red, err := agent.New(players.Red)
	if err != nil {
		return nil, GameResult{}, fmt.Errorf("red agent: %w", err)
	}
	yellow, err := agent.New(players.Yellow)
	if err != nil {
		return nil, GameResult{}, fmt.Errorf("yellow agent: %w", err)
	}
	agents := map[game.Cell]*agent.Agent{game.Red: red, game.Yellow: yellow}

	salt := uint64(workerID)*1000003 + uint64(uuid.New().ID())
	state, err := game.RandomOpening(opts.Size, opts.Rng, opts.Opening, salt)
	if err != nil {
		return nil, GameResult{}, err
	}

	result := GameResult{GameID: fmt.Sprintf("%s_%s", Source, uuid.NewString())}
	rows := make([]store.MoveRow, 0, opts.Size*opts.Size)

	for !rules.IsGameOver(state) {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, result, ctx.Err()
			default:
			}
		}

		if opts.Verbose {
			PrintBoard(state, result.GameID)
		}

		color := state.ToMove()
		mover := agents[color]
		cfg := mover.Config()

		d, err := mover.Decide(state, color)
		if err != nil {
			return nil, result, fmt.Errorf("turn %d: %w", state.Filled(), err)
		}

		rows = append(rows, store.MoveRow{
			GameID:    result.GameID,
			Turn:      int32(state.Filled()),
			Size:      int32(state.Size()),
			Agent:     mover.Name(),
			Depth:     int32(cfg.Depth),
			Pruning:   cfg.Pruning,
			Color:     int32(color),
			Column:    int32(d.Column),
			Value:     int64(d.Value),
			Boards:    int64(d.Boards),
			ElapsedNs: d.Elapsed.Nanoseconds(),
			Board:     strings.Join(state.Rows(), "/"),
			Source:    Source,
		})

		state.Drop(d.Column, color)
		result.Steps++
		if opts.OnStep != nil {
			opts.OnStep()
		}
	}

	if opts.Verbose {
		PrintBoard(state, result.GameID)
	}

	result.Winner = rules.Winner(state)
	for i := range rows {
		rows[i].Outcome = rules.GetResult(state, game.Cell(rows[i].Color))
	}
	return rows, result, nil
}
