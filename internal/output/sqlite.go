package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peekknuf/rarity/internal/rarity"
	_ "modernc.org/sqlite"
)

// TableName is the table the SQLite sink writes.
const TableName = "rarity"

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// WriteSQLite writes the ranking into a fresh database file at path,
// replacing any existing file.
func WriteSQLite(ctx context.Context, path string, r *rarity.Result) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	cols := columns(r)
	seen := make(map[string]struct{}, len(cols))
	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		key := strings.ToLower(c.name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate output column %q", c.name)
		}
		seen[key] = struct{}{}

		typ := "TEXT"
		switch c.kind {
		case kindInt:
			typ = "INTEGER"
		case kindReal:
			typ = "REAL"
		}
		names[i] = quoteIdent(c.name)
		defs[i] = names[i] + " " + typ
	}

	create := "CREATE TABLE " + quoteIdent(TableName) + " (" + strings.Join(defs, ", ") + ")"
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quoteIdent(TableName)+
		" ("+strings.Join(names, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range r.Records {
		if _, err := stmt.ExecContext(ctx, values(r, &r.Records[i])...); err != nil {
			return fmt.Errorf("inserting %s: %w", r.Records[i].AssetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}
