package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Source supplies the record stream for one timeframe.
type Source interface {
	Load(ctx context.Context, tf Timeframe) ([]Sample, error)
}

// CSVSource reads <Dir>/weekly_player_data.csv and <Dir>/yearly_player_data.csv.
type CSVSource struct {
	Dir string
}

// Load parses the timeframe's CSV file.
func (c CSVSource) Load(ctx context.Context, tf Timeframe) ([]Sample, error) {
	table, err := tf.Table()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(c.Dir, table+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	samples, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return samples, nil
}

// ReadCSV parses a header-first CSV stream. Short rows are padded with empty
// cells rather than rejected.
func ReadCSV(ctx context.Context, r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	var out []Sample
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, FromRecord(header, rec))
	}
	return out, nil
}

// SQLiteSource reads the same tables out of a SQLite database file.
type SQLiteSource struct {
	Path string
}

// Load runs SELECT * on the timeframe's table.
func (s SQLiteSource) Load(ctx context.Context, tf Timeframe) ([]Sample, error) {
	table, err := tf.Table()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table) // #nosec G202 -- table name comes from Timeframe.Table
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	var out []Sample
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		text := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				text[i] = c.String
			}
		}
		out = append(out, FromRecord(cols, text))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

// WriteSQLite stores samples into the timeframe's table, creating it with one
// TEXT column per identity field and REAL per metric. Used by tests and by
// the headless report's -import flag.
func WriteSQLite(ctx context.Context, path string, tf Timeframe, metrics []string, samples []Sample) error {
	table, err := tf.Table()
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	cols := []string{ColPlayer + " TEXT", ColPosition + " TEXT", ColSeason + " INTEGER", ColWeek + " INTEGER"}
	names := []string{ColPlayer, ColPosition, ColSeason, ColWeek}
	for _, m := range metrics {
		cols = append(cols, quoteIdent(m)+" REAL")
		names = append(names, quoteIdent(m))
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(cols, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), marks)) // #nosec G201 -- identifiers are quoted
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, s := range samples {
		args := []any{s.Player, s.Position, s.Season, s.Week}
		for _, m := range metrics {
			args = append(args, s.Metrics[m])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s: %w", s.Player, err)
		}
	}
	return tx.Commit()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
