// visualize.go - Console visualization for debugging self-play games.
package selfplay

import (
	"fmt"
	"log"
	"strings"

	"github.com/brensch/c4killer/game"
)

// PrintBoard logs an ASCII view of the board with column indices.
func PrintBoard(state *game.Board, gameID string) {
	log.Print(FormatBoard(state, gameID))
}

// FormatBoard renders the board top row first with a column index footer.
func FormatBoard(state *game.Board, gameID string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n=== TRACE %s (turn %d, %s to move) ===\n", gameID, state.Filled(), state.ToMove()))
	for _, row := range state.Rows() {
		for i := 0; i < len(row); i++ {
			sb.WriteByte(row[i])
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	for col := 0; col < state.Size(); col++ {
		sb.WriteString(fmt.Sprintf("%d ", col%10))
	}
	sb.WriteByte('\n')
	return sb.String()
}
