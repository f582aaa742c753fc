// Package report summarizes self-play parquet output with DuckDB.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// AgentSummary aggregates every move an agent configuration played with one
// color.
type AgentSummary struct {
	Agent        string
	Color        int
	Depth        int
	Pruning      bool
	Games        int64
	Moves        int64
	Wins         int64
	Losses       int64
	Draws        int64
	AvgBoards    float64
	AvgElapsedMs float64
	MaxElapsedMs float64
}

// DepthSummary compares the search effort per depth with and without pruning.
type DepthSummary struct {
	Depth        int
	Pruning      bool
	Moves        int64
	AvgBoards    float64
	AvgElapsedMs float64
}

// Open creates an in-memory DuckDB with a "moves" view over every parquet
// file below roots. Files still being written under a tmp directory are
// skipped.
func Open(roots []string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, err
	}
	// Basic pragmas; ignore errors for compatibility across versions.
	_, _ = db.Exec("PRAGMA threads=4")

	globs := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		glob := filepath.Join(root, "**", "*.parquet")
		globs = append(globs, "'"+escapeSQLString(glob)+"'")
	}
	if len(globs) == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("no parquet roots given")
	}

	sqlText := `CREATE OR REPLACE VIEW moves AS
		SELECT * FROM read_parquet([` + strings.Join(globs, ",") + `], filename=true, union_by_name=true)
		WHERE NOT regexp_matches(filename, '/tmp/[^/]*$')`
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create moves view: %w", err)
	}
	return db, nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Agents returns one summary per (agent, color, depth, pruning), ordered by
// those keys. Games are counted by their recorded outcome for the mover.
func Agents(ctx context.Context, db *sql.DB) ([]AgentSummary, error) {
	query := `SELECT
			agent,
			color::INTEGER,
			depth::INTEGER,
			pruning,
			COUNT(DISTINCT game_id) AS games,
			COUNT(*) AS moves,
			COUNT(DISTINCT game_id) FILTER (WHERE outcome > 0) AS wins,
			COUNT(DISTINCT game_id) FILTER (WHERE outcome < 0) AS losses,
			COUNT(DISTINCT game_id) FILTER (WHERE outcome = 0) AS draws,
			AVG(boards)::DOUBLE AS avg_boards,
			(AVG(elapsed_ns) / 1e6)::DOUBLE AS avg_ms,
			(MAX(elapsed_ns) / 1e6)::DOUBLE AS max_ms
		FROM moves
		GROUP BY agent, color, depth, pruning
		ORDER BY agent, color DESC, depth, pruning`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	defer rows.Close()

	var out []AgentSummary
	for rows.Next() {
		var s AgentSummary
		if err := rows.Scan(&s.Agent, &s.Color, &s.Depth, &s.Pruning, &s.Games, &s.Moves,
			&s.Wins, &s.Losses, &s.Draws, &s.AvgBoards, &s.AvgElapsedMs, &s.MaxElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Depths returns the average search effort per depth and pruning setting.
func Depths(ctx context.Context, db *sql.DB) ([]DepthSummary, error) {
	rows, err := db.QueryContext(ctx, `SELECT
			depth::INTEGER,
			pruning,
			COUNT(*) AS moves,
			AVG(boards)::DOUBLE,
			(AVG(elapsed_ns) / 1e6)::DOUBLE
		FROM moves
		GROUP BY depth, pruning
		ORDER BY depth, pruning`)
	if err != nil {
		return nil, fmt.Errorf("query depths: %w", err)
	}
	defer rows.Close()

	var out []DepthSummary
	for rows.Next() {
		var s DepthSummary
		if err := rows.Scan(&s.Depth, &s.Pruning, &s.Moves, &s.AvgBoards, &s.AvgElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GamesTotal counts the distinct games in the view.
func GamesTotal(ctx context.Context, db *sql.DB) (int64, error) {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT game_id) FROM moves`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
