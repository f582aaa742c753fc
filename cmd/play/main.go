// Command play is a terminal game of four-in-a-row against the agent.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/brensch/c4killer/agent"
	"github.com/brensch/c4killer/game"
	"github.com/brensch/c4killer/rules"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")).Bold(true)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7"))
)

func cellStyle(symbol byte) lipgloss.Style {
	switch symbol {
	case game.Red.Symbol():
		return redStyle
	case game.Yellow.Symbol():
		return yellowStyle
	default:
		return emptyStyle
	}
}

type agentMoveMsg struct {
	decision agent.Decision
	err      error
}

type model struct {
	board    *game.Board
	agent    *agent.Agent
	human    game.Cell
	cursor   int
	thinking bool
	over     bool
	winner   game.Cell
	status   string
}

func newModel(board *game.Board, a *agent.Agent, human game.Cell) model {
	m := model{
		board:  board,
		agent:  a,
		human:  human,
		cursor: board.Size() / 2,
		status: "Your move.",
	}
	if board.ToMove() != human {
		m.thinking = true
		m.status = fmt.Sprintf("%s is thinking...", a.Name())
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.thinking {
		return m.agentMove()
	}
	return nil
}

// agentMove searches on a copy so the view can keep rendering the board.
func (m model) agentMove() tea.Cmd {
	board := m.board.Clone()
	a := m.agent
	color := m.human.Opponent()
	return func() tea.Msg {
		d, err := a.Decide(board, color)
		return agentMoveMsg{decision: d, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < m.board.Size()-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.thinking || m.over {
				return m, nil
			}
			if _, err := rules.Play(m.board, m.cursor, m.human); err != nil {
				m.status = fmt.Sprintf("Cannot play there: %v.", err)
				return m, nil
			}
			if m.finish(m.cursor, m.human) {
				return m, nil
			}
			m.thinking = true
			m.status = fmt.Sprintf("%s is thinking...", m.agent.Name())
			return m, m.agentMove()
		}
	case agentMoveMsg:
		m.thinking = false
		if msg.err != nil {
			m.over = true
			m.status = fmt.Sprintf("Agent error: %v", msg.err)
			return m, nil
		}
		col := msg.decision.Column
		if _, err := rules.Play(m.board, col, m.human.Opponent()); err != nil {
			m.over = true
			m.status = fmt.Sprintf("Agent played an illegal move: %v", err)
			return m, nil
		}
		if m.finish(col, m.human.Opponent()) {
			return m, nil
		}
		m.status = fmt.Sprintf("%s played column %d (value %d, %d boards). Your move.",
			m.agent.Name(), col, msg.decision.Value, msg.decision.Boards)
	}
	return m, nil
}

// finish ends the game when the piece side just dropped in col won or the
// board is full.
func (m *model) finish(col int, side game.Cell) bool {
	switch {
	case m.board.CompletesFour(col, side):
		m.over, m.winner = true, side
		if side == m.human {
			m.status = "You win! Press q to quit."
		} else {
			m.status = fmt.Sprintf("%s wins. Press q to quit.", m.agent.Name())
		}
	case !m.board.AnyMovePossible():
		m.over = true
		m.status = "Draw. Press q to quit."
	default:
		return false
	}
	return true
}

func (m model) View() string {
	var b strings.Builder
	n := m.board.Size()

	b.WriteString(" ")
	for c := 0; c < n; c++ {
		if c == m.cursor && !m.over {
			b.WriteString(" v")
		} else {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range m.board.Rows() {
		b.WriteString(" |")
		for i := 0; i < len(row); i++ {
			b.WriteString(cellStyle(row[i]).Render(string(row[i])))
			b.WriteByte('|')
		}
		b.WriteString("\n")
	}
	b.WriteString(" ")
	for c := 0; c < n; c++ {
		fmt.Fprintf(&b, " %d", c%10)
	}
	fmt.Fprintf(&b, "\n\nYou are %s. %s\n",
		cellStyle(m.human.Symbol()).Render(string(m.human.Symbol())), statusStyle.Render(m.status))
	b.WriteString("left/right to move, enter to drop, q to quit.\n")
	return b.String()
}

func main() {
	size := flag.Int("size", 8, "Board size")
	depth := flag.Int("depth", 4, "Agent search depth")
	pruning := flag.Bool("pruning", true, "Use alpha-beta pruning")
	configPath := flag.String("config", "", "Agent YAML config (overrides -depth/-pruning)")
	agentFirst := flag.Bool("agent-first", false, "Let the agent play red")
	flag.Parse()

	cfg := agent.DefaultConfig()
	cfg.Depth = *depth
	cfg.Pruning = *pruning
	if *configPath != "" {
		loaded, err := agent.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	a, err := agent.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	board, err := game.NewBoard(*size)
	if err != nil {
		log.Fatalf("Failed to create board: %v", err)
	}

	human := game.Red
	if *agentFirst {
		human = game.Yellow
	}

	p := tea.NewProgram(newModel(board, a, human))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(a.Statistics())
	fmt.Printf("Boards explored: %d\n", a.TotalBoards())
}
