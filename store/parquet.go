// Package store persists recorded games as Parquet files.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// SchemaName is written into the key/value metadata of every file.
const SchemaName = "move_row_v1"

// MoveRow is a single decision made by an agent during a recorded game.
//
// Board is the position before the move in text form, top row first, rows
// separated by '/'. Outcome is the final result in [-1..1] from the mover's
// perspective; it is only known once the game completes.
type MoveRow struct {
	GameID    string  `parquet:"game_id,dict"`
	Turn      int32   `parquet:"turn"`
	Size      int32   `parquet:"size"`
	Agent     string  `parquet:"agent,dict"`
	Depth     int32   `parquet:"depth"`
	Pruning   bool    `parquet:"pruning"`
	Color     int32   `parquet:"color"`
	Column    int32   `parquet:"column"`
	Value     int64   `parquet:"value"`
	Boards    int64   `parquet:"boards"`
	ElapsedNs int64   `parquet:"elapsed_ns"`
	Board     string  `parquet:"board"`
	Outcome   float32 `parquet:"outcome"`
	Source    string  `parquet:"source,dict"`
}

func writerOptions() []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.SkipPageBounds("board"),
		parquet.KeyValueMetadata("schema", SchemaName),
	}
}

// WriteGameParquet writes rows to outPath through a temp file and rename.
func WriteGameParquet(outPath string, rows []MoveRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Write to a temp file and rename atomically.
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, writerOptions()...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// WriteBatchParquetAtomic writes a Parquet file into outDir/tmp and then
// atomically moves it into outDir.
//
// This is useful for long-running writers (like self-play) that want to ensure
// readers never observe partially-written Parquet files.
func WriteBatchParquetAtomic(outDir string, rows []MoveRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("batch_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, writerOptions()...); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}

	return finalPath, nil
}

// ReadMoveRows loads every row of a file written by this package.
func ReadMoveRows(path string) ([]MoveRow, error) {
	rows, err := parquet.ReadFile[MoveRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}
