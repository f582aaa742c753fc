package game

import (
	"errors"
	"math/rand"
	"testing"
)

func logBoard(t *testing.T, label string, b *Board) {
	t.Helper()
	t.Logf("%s\n%s", label, b)
}

func TestNewBoard_RejectsSmallSizes(t *testing.T) {
	for _, size := range []int{-1, 0, 3} {
		if _, err := NewBoard(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size=%d err=%v want ErrInvalidSize", size, err)
		}
	}
	b, err := NewBoard(8)
	if err != nil {
		t.Fatalf("NewBoard(8): %v", err)
	}
	if b.Size() != 8 || b.Filled() != 0 || !b.AnyMovePossible() {
		t.Fatalf("unexpected empty board: size=%d filled=%d", b.Size(), b.Filled())
	}
}

func TestDrop_StacksInLowestRow(t *testing.T) {
	b, _ := NewBoard(4)
	if row := b.Drop(2, Red); row != 0 {
		t.Fatalf("first drop row=%d want 0", row)
	}
	if row := b.Drop(2, Yellow); row != 1 {
		t.Fatalf("second drop row=%d want 1", row)
	}
	logBoard(t, "after two drops", b)

	if got := b.Occupant(0, 2); got != Red {
		t.Fatalf("occupant(0,2)=%v want red", got)
	}
	if got := b.TopPiece(2); got != Yellow {
		t.Fatalf("top piece=%v want yellow", got)
	}
	if got := b.TopPiece(0); got != Empty {
		t.Fatalf("top piece of empty column=%v want empty", got)
	}
}

func TestDrop_FullColumnIsNoop(t *testing.T) {
	b, _ := NewBoard(4)
	for i := 0; i < 4; i++ {
		b.Drop(0, Red)
	}
	if b.HasSpace(0) {
		t.Fatalf("column 0 should be full")
	}
	before := b.Clone()
	if row := b.Drop(0, Yellow); row != -1 {
		t.Fatalf("drop on full column row=%d want -1", row)
	}
	if !b.Equal(before) {
		t.Fatalf("board changed after drop on full column")
	}
	if b.HasSpace(-1) || b.HasSpace(4) {
		t.Fatalf("out of range columns must not have space")
	}
}

func TestCompletesFour(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		col  int
		side Cell
		want bool
	}{
		{
			name: "horizontal",
			rows: []string{
				".....",
				".....",
				".....",
				".....",
				".XXXX",
			},
			col: 4, side: Red, want: true,
		},
		{
			name: "vertical",
			rows: []string{
				".....",
				"O....",
				"O....",
				"O....",
				"OX.XX",
			},
			col: 0, side: Yellow, want: true,
		},
		{
			name: "diagonal up-right",
			rows: []string{
				"...X.",
				"..XO.",
				".XOO.",
				"XOOX.",
				"OXXO.",
			},
			col: 3, side: Red, want: true,
		},
		{
			name: "anti-diagonal through middle",
			rows: []string{
				"X....",
				"OX...",
				"OOX..",
				"XOOX.",
				"XXOO.",
			},
			col: 1, side: Red, want: true,
		},
		{
			name: "three only",
			rows: []string{
				".....",
				".....",
				".....",
				".....",
				".XXX.",
			},
			col: 3, side: Red, want: false,
		},
		{
			name: "top piece belongs to other side",
			rows: []string{
				".....",
				".....",
				".....",
				"....O",
				".XXXX",
			},
			col: 4, side: Red, want: false,
		},
		{
			name: "empty column",
			rows: []string{
				"....",
				"....",
				"....",
				"....",
			},
			col: 0, side: Red, want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := MustParseBoard(tt.rows...)
			if got := b.CompletesFour(tt.col, tt.side); got != tt.want {
				logBoard(t, tt.name, b)
				t.Fatalf("CompletesFour(%d, %v)=%v want %v", tt.col, tt.side, got, tt.want)
			}
		})
	}
}

func TestClone_IsIndependent(t *testing.T) {
	b := MustParseBoard(
		"....",
		"....",
		"O...",
		"XX..",
	)
	c := b.Clone()
	c.Drop(3, Yellow)
	c.Drop(0, Red)
	if b.Equal(c) {
		t.Fatalf("clone shares storage with original")
	}
	if b.Occupant(0, 3) != Empty || b.Height(0) != 2 {
		t.Fatalf("original mutated:\n%s", b)
	}
}

func TestParseBoard_RoundTripsAndValidates(t *testing.T) {
	rows := []string{
		"....",
		"..O.",
		"X.XO",
		"XOXO",
	}
	b, err := ParseBoard(rows...)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	got := b.Rows()
	for i := range rows {
		if got[i] != rows[i] {
			t.Fatalf("row %d=%q want %q", i, got[i], rows[i])
		}
	}
	if b.Filled() != 8 {
		t.Fatalf("filled=%d want 8", b.Filled())
	}
	if b.ToMove() != Red {
		t.Fatalf("to move=%v want red", b.ToMove())
	}

	if _, err := ParseBoard("....", "X...", "....", "...."); !errors.Is(err, ErrFloatingPiece) {
		t.Fatalf("floating piece err=%v", err)
	}
	if _, err := ParseBoard("....", "...", "....", "...."); !errors.Is(err, ErrBadRow) {
		t.Fatalf("short row err=%v", err)
	}
	if _, err := ParseBoard("....", "..#.", "....", "...."); !errors.Is(err, ErrBadRow) {
		t.Fatalf("bad symbol err=%v", err)
	}
}

func TestRandomOpening_NeverDecided(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		b, err := RandomOpening(6, rng, OpeningSettings{Plies: 12}, 0)
		if err != nil {
			t.Fatalf("RandomOpening: %v", err)
		}
		if b.Filled() != 12 {
			logBoard(t, "opening", b)
			t.Fatalf("filled=%d want 12", b.Filled())
		}
		for col := 0; col < b.Size(); col++ {
			if top := b.TopPiece(col); top != Empty && b.CompletesFour(col, top) {
				logBoard(t, "decided opening", b)
				t.Fatalf("opening already has a line in column %d", col)
			}
		}
	}
}

func TestRandomOpening_DeterministicWithoutRNG(t *testing.T) {
	a, _ := RandomOpening(7, nil, DefaultOpeningSettings, 42)
	b, _ := RandomOpening(7, nil, DefaultOpeningSettings, 42)
	if !a.Equal(b) {
		t.Fatalf("same salt produced different openings:\n%s\n%s", a, b)
	}
}
