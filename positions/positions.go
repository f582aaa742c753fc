// Package positions loads named test positions for the agent.
//
// Positions come either from HTML pages, where each position is a
// <table class="position"> whose cells carry the class "red" or "yellow",
// or from plain text blocks:
//
//	# name X
//	....
//	.X..
//	.OX.
//	XOOX
//
// The optional trailing X or O on the header line names the side to move.
package positions

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/brensch/c4killer/game"
)

var ErrNoPositions = errors.New("no positions found")

// Position is a named board with the side to move.
type Position struct {
	Name   string
	Board  *game.Board
	ToMove game.Cell
}

// ParseHTML extracts every table.position from an HTML document.
func ParseHTML(r io.Reader) ([]Position, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []Position
	var parseErr error
	doc.Find("table.position").EachWithBreak(func(i int, table *goquery.Selection) bool {
		name := strings.TrimSpace(table.AttrOr("data-name", ""))
		if name == "" {
			name = fmt.Sprintf("position-%d", i+1)
		}

		var rows []string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var line strings.Builder
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				switch {
				case td.HasClass("red"):
					line.WriteByte(game.Red.Symbol())
				case td.HasClass("yellow"):
					line.WriteByte(game.Yellow.Symbol())
				default:
					line.WriteByte(game.Empty.Symbol())
				}
			})
			if line.Len() > 0 {
				rows = append(rows, line.String())
			}
		})

		p, err := newPosition(name, rows, table.AttrOr("data-to-move", ""))
		if err != nil {
			parseErr = err
			return false
		}
		out = append(out, p)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(out) == 0 {
		return nil, ErrNoPositions
	}
	return out, nil
}

// ParseText reads positions in the block format described in the package doc.
// Lines outside a block that are blank are ignored.
func ParseText(r io.Reader) ([]Position, error) {
	var (
		out    []Position
		name   string
		toMove string
		rows   []string
		open   bool
	)
	flush := func() error {
		if !open {
			return nil
		}
		p, err := newPosition(name, rows, toMove)
		if err != nil {
			return err
		}
		out = append(out, p)
		open, rows = false, nil
		return nil
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "#"):
			if err := flush(); err != nil {
				return nil, err
			}
			fields := strings.Fields(strings.TrimPrefix(line, "#"))
			name, toMove = fmt.Sprintf("position-%d", len(out)+1), ""
			if n := len(fields); n > 0 && (fields[n-1] == "X" || fields[n-1] == "O") {
				toMove = fields[n-1]
				fields = fields[:n-1]
			}
			if len(fields) > 0 {
				name = strings.Join(fields, " ")
			}
			open = true
		case line == "":
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			if !open {
				return nil, fmt.Errorf("line %d: board row outside a position block", lineNo)
			}
			rows = append(rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoPositions
	}
	return out, nil
}

func newPosition(name string, rows []string, toMove string) (Position, error) {
	b, err := game.ParseBoard(rows...)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: %w", name, err)
	}
	p := Position{Name: name, Board: b, ToMove: b.ToMove()}
	switch strings.ToUpper(strings.TrimSpace(toMove)) {
	case "X":
		p.ToMove = game.Red
	case "O":
		p.ToMove = game.Yellow
	case "":
	default:
		return Position{}, fmt.Errorf("position %q: side to move %q", name, toMove)
	}
	return p, nil
}

// LoadFile reads positions from path; .html and .htm files are parsed as
// HTML, everything else as text.
func LoadFile(path string) ([]Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ParseHTML(f)
	default:
		return ParseText(f)
	}
}

// Fetch downloads an HTML page of positions.
func Fetch(ctx context.Context, client *http.Client, url string) ([]Position, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "c4killer/1.0 (position-import)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", url, resp.StatusCode)
	}
	return ParseHTML(resp.Body)
}

// Load reads positions from a local file or, for http(s) sources, a URL.
func Load(ctx context.Context, source string) ([]Position, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return Fetch(ctx, nil, source)
	}
	return LoadFile(source)
}
