// Package agent implements the move-selection entry point of the player.
//
// An Agent enumerates the legal root moves, scores each one with a
// depth-bounded minimax search and keeps a log of the columns it played and
// how long each decision took.
package agent

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/brensch/c4killer/executor/minimax"
	"github.com/brensch/c4killer/game"
)

var (
	ErrInvalidDepth = errors.New("invalid search depth")
	ErrNoLegalMove  = errors.New("no legal move")
	ErrInvalidColor = errors.New("invalid color")
)

// MoveRecord is one entry of the agent's move log.
type MoveRecord struct {
	Column  int
	Elapsed time.Duration
	Boards  int
}

// Decision is the outcome of one move selection.
type Decision struct {
	Column  int
	Value   int
	Boards  int
	Elapsed time.Duration
}

// Agent selects moves with minimax. It is not safe for concurrent use.
type Agent struct {
	config   Config
	searcher minimax.Searcher

	moves       []MoveRecord
	totalBoards int
}

// New validates cfg and returns an agent.
func New(cfg Config) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	return &Agent{
		config:   cfg,
		searcher: minimax.Searcher{Pruning: cfg.Pruning},
	}, nil
}

// Name identifies the agent to drivers.
func (a *Agent) Name() string { return a.config.Name }

func (a *Agent) Config() Config { return a.config }

// SelectMove returns the column the agent plays for color on b.
// It returns -1 and ErrNoLegalMove when every column is full.
func (a *Agent) SelectMove(b *game.Board, color game.Cell) (int, error) {
	d, err := a.Decide(b, color)
	if err != nil {
		return -1, err
	}
	return d.Column, nil
}

// Decide scores every legal column for color and returns the best one.
// Columns are tried in ascending order and a later column only replaces the
// current best when its value is strictly greater. b is never modified.
func (a *Agent) Decide(b *game.Board, color game.Cell) (Decision, error) {
	if !color.Valid() {
		return Decision{Column: -1}, fmt.Errorf("%w: %d", ErrInvalidColor, color)
	}
	if b == nil || !b.AnyMovePossible() {
		return Decision{Column: -1}, ErrNoLegalMove
	}

	start := time.Now()
	a.searcher.Boards = 0

	bestColumn, bestValue := -1, minimax.MinusInfinite
	for col := 0; col < b.Size(); col++ {
		if !b.HasSpace(col) {
			continue
		}
		child := b.Clone()
		child.Drop(col, color)
		value := a.searcher.Min(minimax.Node{
			Board:  child,
			Depth:  a.config.Depth - 1,
			Column: col,
			Color:  color,
			Alpha:  minimax.MinusInfinite,
			Beta:   minimax.Infinite,
		})
		// A lost position still has to return a legal column.
		if bestColumn == -1 || value > bestValue {
			bestColumn, bestValue = col, value
		}
	}

	d := Decision{
		Column:  bestColumn,
		Value:   bestValue,
		Boards:  a.searcher.Boards,
		Elapsed: time.Since(start),
	}
	a.totalBoards += d.Boards
	a.moves = append(a.moves, MoveRecord{Column: d.Column, Elapsed: d.Elapsed, Boards: d.Boards})

	if a.config.Verbose {
		log.Printf("[%s] color=%v column=%d value=%d boards=%d time=%v", a.config.Name, color, d.Column, d.Value, d.Boards, d.Elapsed)
	}
	return d, nil
}

// Moves returns a copy of the move log.
func (a *Agent) Moves() []MoveRecord {
	return append([]MoveRecord(nil), a.moves...)
}

// BoardsExplored is the number of boards searched by the last move selection.
func (a *Agent) BoardsExplored() int { return a.searcher.Boards }

// TotalBoards is the number of boards searched over the agent's lifetime.
func (a *Agent) TotalBoards() int { return a.totalBoards }

// WriteStatistics prints the move log as a table.
func (a *Agent) WriteStatistics(w io.Writer) error {
	var b strings.Builder
	b.WriteString("\n================= Table of Statistics =================\n")
	fmt.Fprintf(&b, "%-10s | %-17s | %-20s\n", "Move", "Column", "Time (seconds)")
	b.WriteString("-------------------------------------------------------\n")
	for i, m := range a.moves {
		fmt.Fprintf(&b, "%-10d | %-17d | %-20.4f\n", i+1, m.Column, m.Elapsed.Seconds())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Statistics returns the table written by WriteStatistics.
func (a *Agent) Statistics() string {
	var b strings.Builder
	_ = a.WriteStatistics(&b)
	return b.String()
}
