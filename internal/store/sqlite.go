package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskflow/internal/board"
	"taskflow/internal/logging"

	_ "modernc.org/sqlite"
)

const mainDocument = "main"

// SQLiteGateway keeps the document as one row of the documents table. A corrupt row is renamed
// rather than deleted.
type SQLiteGateway struct {
	Path   string
	Logger logging.Logger

	now func() time.Time
	// held is set while the stored row must not be overwritten.
	held error
}

func NewSQLiteGateway(path string) *SQLiteGateway {
	return &SQLiteGateway{
		Path:   filepath.Clean(path),
		Logger: logging.Nop(),
		now:    time.Now,
	}
}

func (g *SQLiteGateway) Describe() string { return "sqlite:" + g.Path }

func (g *SQLiteGateway) logger() logging.Logger {
	if g.Logger == nil {
		return logging.Nop()
	}
	return g.Logger
}

func (g *SQLiteGateway) clock() time.Time {
	if g.now == nil {
		return time.Now()
	}
	return g.now()
}

func (g *SQLiteGateway) open(ctx context.Context) (*sql.DB, error) {
	if _, err := ensureParent(g.Path); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", g.Path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		saved_at_unixms INTEGER NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return db, nil
}

func (g *SQLiteGateway) Raw() ([]byte, error) {
	ctx := context.Background()
	db, err := g.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", g.Path, err)
	}
	defer db.Close()

	var body string
	err = db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, mainDocument).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: no document: %w", g.Path, os.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", g.Path, err)
	}
	return []byte(body), nil
}

func (g *SQLiteGateway) Load() (*board.Store, error) {
	ctx := context.Background()
	db, err := g.open(ctx)
	if err != nil {
		return board.New(), fmt.Errorf("open %s: %w", g.Path, err)
	}
	defer db.Close()

	var body string
	err = db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, mainDocument).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		g.held = nil
		g.logger().Debug("no board document yet", "path", g.Path)
		return board.New(), nil
	}
	if err != nil {
		g.held = err
		g.logger().Error("board document is unreadable; saves are disabled", "path", g.Path, "err", err)
		return board.New(), fmt.Errorf("read %s: %w", g.Path, err)
	}

	st, derr := Decode([]byte(body))
	if derr != nil {
		cerr := &CorruptError{Path: g.Path, Err: derr}
		aside := "corrupt-" + g.clock().Format(quarantineLayout)
		if _, qerr := db.ExecContext(ctx, `UPDATE OR REPLACE documents SET name = ? WHERE name = ?`, aside, mainDocument); qerr != nil {
			g.held = qerr
			g.logger().Warn("could not quarantine corrupt document; saves are disabled", "path", g.Path, "err", qerr)
		} else {
			g.held = nil
			cerr.Quarantined = g.Path + "#" + aside
		}
		g.logger().Error("board document is corrupt", "path", g.Path, "quarantined", cerr.Quarantined, "err", derr)
		return board.New(), cerr
	}
	g.held = nil
	return st, nil
}

func (g *SQLiteGateway) Save(st *board.Store) error {
	if g.held != nil {
		return refuseOverwrite(g.Path, g.held)
	}
	b, err := Encode(st)
	if err != nil {
		return err
	}
	ctx := context.Background()
	db, err := g.open(ctx)
	if err != nil {
		return fmt.Errorf("open %s: %w", g.Path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO documents(name, body, saved_at_unixms) VALUES(?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, saved_at_unixms = excluded.saved_at_unixms`,
		mainDocument, string(b), g.clock().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	g.logger().Debug("saved board document", "path", g.Path, "bytes", len(b))
	return nil
}
