package positions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brensch/c4killer/game"
)

const samplePage = `<html><body>
<h1>Puzzles</h1>
<table class="position" data-name="vertical threat" data-to-move="O">
  <tr><td></td><td></td><td></td><td></td></tr>
  <tr><td class="yellow"></td><td></td><td></td><td></td></tr>
  <tr><td class="yellow"></td><td class="red"></td><td></td><td></td></tr>
  <tr><td class="yellow"></td><td class="red"></td><td class="red cell"></td><td class="red"></td></tr>
</table>
<table class="legend"><tr><td class="red"></td></tr></table>
<table class="position">
  <tr><td></td><td></td><td></td><td></td></tr>
  <tr><td></td><td></td><td></td><td></td></tr>
  <tr><td></td><td></td><td></td><td></td></tr>
  <tr><td></td><td class="red"></td><td></td><td></td></tr>
</table>
</body></html>`

func TestParseHTML(t *testing.T) {
	got, err := ParseHTML(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d positions, want 2", len(got))
	}

	want := game.MustParseBoard("....", "O...", "OX..", "OXXX")
	if got[0].Name != "vertical threat" || got[0].ToMove != game.Yellow || !got[0].Board.Equal(want) {
		t.Fatalf("first position: name=%q toMove=%v\n%s", got[0].Name, got[0].ToMove, got[0].Board)
	}
	if got[1].Name != "position-2" || got[1].ToMove != game.Yellow {
		t.Fatalf("second position: name=%q toMove=%v", got[1].Name, got[1].ToMove)
	}
	t.Logf("\n%s", got[0].Board)
}

func TestParseHTMLErrors(t *testing.T) {
	if _, err := ParseHTML(strings.NewReader("<p>nothing</p>")); !errors.Is(err, ErrNoPositions) {
		t.Fatalf("err=%v want ErrNoPositions", err)
	}

	floating := `<table class="position"><tr><td class="red"></td><td></td><td></td><td></td></tr>` +
		strings.Repeat(`<tr><td></td><td></td><td></td><td></td></tr>`, 3) + `</table>`
	if _, err := ParseHTML(strings.NewReader(floating)); !errors.Is(err, game.ErrFloatingPiece) {
		t.Fatalf("err=%v want ErrFloatingPiece", err)
	}
}

const sampleText = `
# win now X
....
....
XXO.
XOO.

# empty
....
....
....
....
`

func TestParseText(t *testing.T) {
	got, err := ParseText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d positions, want 2", len(got))
	}
	if got[0].Name != "win now" || got[0].ToMove != game.Red {
		t.Fatalf("first: name=%q toMove=%v", got[0].Name, got[0].ToMove)
	}
	if got[0].Board.Filled() != 6 {
		t.Fatalf("first: filled=%d want 6", got[0].Board.Filled())
	}
	if got[1].Name != "empty" || got[1].ToMove != game.Red || got[1].Board.Filled() != 0 {
		t.Fatalf("second: %+v", got[1])
	}
}

func TestParseTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"row outside block", "....\n"},
		{"ragged", "# a\n....\n...\n....\n....\n"},
		{"too small", "# a\n...\n...\n...\n"},
	}
	for _, tt := range tests {
		if _, err := ParseText(strings.NewReader(tt.input)); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}

	if _, err := ParseText(strings.NewReader("\n\n")); !errors.Is(err, ErrNoPositions) {
		t.Fatalf("err=%v want ErrNoPositions", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "puzzles.html")
	textPath := filepath.Join(dir, "puzzles.txt")
	if err := os.WriteFile(htmlPath, []byte(samplePage), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(textPath, []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{htmlPath, textPath} {
		got, err := Load(context.Background(), path)
		if err != nil {
			t.Fatalf("Load(%s): %v", path, err)
		}
		if len(got) != 2 {
			t.Fatalf("Load(%s): %d positions", path, len(got))
		}
	}
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/puzzles" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, samplePage)
	}))
	defer ts.Close()

	got, err := Load(context.Background(), ts.URL+"/puzzles")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d positions", len(got))
	}

	if _, err := Fetch(context.Background(), ts.Client(), ts.URL+"/missing"); err == nil {
		t.Fatalf("expected error for 404")
	}
}
