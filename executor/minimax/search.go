package minimax

// Max scores n as a level where the perspective side is about to move.
func (s *Searcher) Max(n Node) int { return s.searchMax(n) }

// Min scores n as a level where the opponent of the perspective side is about
// to move.
func (s *Searcher) Min(n Node) int { return s.searchMin(n) }

// lastMoveWins reports whether the piece dropped into n.Column completed a line.
func lastMoveWins(n Node) bool {
	return n.Board.CompletesFour(n.Column, n.Board.TopPiece(n.Column))
}

func (s *Searcher) searchMax(n Node) int {
	s.Boards++
	if lastMoveWins(n) {
		return MinusInfinite
	}
	if n.Depth <= 0 || !n.Board.AnyMovePossible() {
		return Evaluate(n.Board, n.Color)
	}

	best := MinusInfinite
	for col := 0; col < n.Board.Size(); col++ {
		if !n.Board.HasSpace(col) {
			continue
		}
		child := n.Board.Clone()
		child.Drop(col, n.Color)
		best = max(best, s.searchMin(Node{
			Board:  child,
			Depth:  n.Depth - 1,
			Column: col,
			Color:  n.Color,
			Alpha:  n.Alpha,
			Beta:   n.Beta,
		}))
		if s.Pruning && best >= n.Beta {
			break
		}
		n.Alpha = max(n.Alpha, best)
	}
	return best
}

func (s *Searcher) searchMin(n Node) int {
	s.Boards++
	if lastMoveWins(n) {
		return Infinite
	}
	if n.Depth <= 0 || !n.Board.AnyMovePossible() {
		return Evaluate(n.Board, n.Color)
	}

	best := Infinite
	for col := 0; col < n.Board.Size(); col++ {
		if !n.Board.HasSpace(col) {
			continue
		}
		child := n.Board.Clone()
		child.Drop(col, n.Color.Opponent())
		best = min(best, s.searchMax(Node{
			Board:  child,
			Depth:  n.Depth - 1,
			Column: col,
			Color:  n.Color,
			Alpha:  n.Alpha,
			Beta:   n.Beta,
		}))
		if s.Pruning && best <= n.Alpha {
			break
		}
		n.Beta = min(n.Beta, best)
	}
	return best
}
