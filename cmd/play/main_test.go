package main

import (
	"strings"
	"testing"

	"github.com/brensch/c4killer/agent"
	"github.com/brensch/c4killer/game"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T, human game.Cell, rows ...string) model {
	t.Helper()
	cfg := agent.DefaultConfig()
	cfg.Depth = 2
	a, err := agent.New(cfg)
	if err != nil {
		t.Fatalf("agent.New: %v", err)
	}
	board, err := game.NewBoard(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) > 0 {
		board = game.MustParseBoard(rows...)
	}
	return newModel(board, a, human)
}

func press(m model, key tea.KeyMsg) (model, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(model), cmd
}

func TestHumanMoveThenAgentReply(t *testing.T) {
	m := newTestModel(t, game.Red)
	if cmd := m.Init(); cmd != nil {
		t.Fatalf("agent should not move first")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursor != 0 {
		t.Fatalf("cursor=%d want 0", m.cursor)
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.thinking {
		t.Fatalf("expected agent move after drop")
	}
	if m.board.Occupant(0, 0) != game.Red {
		t.Fatalf("human piece missing\n%s", m.board)
	}

	// Input is ignored while the agent thinks.
	m, extra := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if extra != nil || m.board.Filled() != 1 {
		t.Fatalf("drop accepted while thinking")
	}

	next, _ := m.Update(cmd())
	m = next.(model)
	t.Logf("\n%s", m.View())
	if m.thinking || m.board.Filled() != 2 {
		t.Fatalf("agent reply not applied: thinking=%v filled=%d", m.thinking, m.board.Filled())
	}
	if len(m.agent.Moves()) != 1 {
		t.Fatalf("agent moves=%d want 1", len(m.agent.Moves()))
	}
}

func TestHumanWins(t *testing.T) {
	m := newTestModel(t, game.Red,
		"....",
		"X...",
		"XO..",
		"XOO.",
	)
	m.cursor = 0
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("agent should not move after the game ended")
	}
	if !m.over || m.winner != game.Red {
		t.Fatalf("over=%v winner=%v\n%s", m.over, m.winner, m.board)
	}
	if !strings.Contains(m.View(), "You win!") {
		t.Fatalf("view missing result:\n%s", m.View())
	}
}

func TestAgentWins(t *testing.T) {
	m := newTestModel(t, game.Red,
		"....",
		"O...",
		"O...",
		"OXX.",
	)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected agent move")
	}
	next, _ := m.Update(cmd())
	m = next.(model)
	t.Logf("\n%s", m.View())
	if !m.over || m.winner != game.Yellow {
		t.Fatalf("over=%v winner=%v\n%s", m.over, m.winner, m.board)
	}
	if m.board.Occupant(3, 0) != game.Yellow {
		t.Fatalf("agent did not complete the column\n%s", m.board)
	}
}

func TestAgentMovesFirst(t *testing.T) {
	m := newTestModel(t, game.Yellow)
	if !m.thinking {
		t.Fatalf("agent should be thinking")
	}
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected agent move from Init")
	}
	next, _ := m.Update(cmd())
	m = next.(model)
	if m.board.Filled() != 1 || m.board.ToMove() != game.Yellow {
		t.Fatalf("unexpected board after agent opening\n%s", m.board)
	}
}

func TestFullColumnRejected(t *testing.T) {
	m := newTestModel(t, game.Red,
		"O...",
		"X...",
		"O...",
		"X...",
	)
	m.cursor = 0
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.board.Filled() != 4 {
		t.Fatalf("drop into full column accepted")
	}
	if !strings.Contains(m.status, "full") {
		t.Fatalf("status=%q", m.status)
	}
}
