// Package store persists the board store as a single JSON document.
//
// Two backends share the same document format: a plain file (the default) and a SQLite
// database that keeps the document in one row. Both load the whole document at start and
// rewrite it after every mutation.
package store

import (
	"fmt"
	"strings"
	"time"

	"taskflow/internal/board"
	"taskflow/internal/logging"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Gateway loads and saves the whole board document.
//
// Load never fails hard: when the document is missing it returns an empty store and a nil
// error; when it is unreadable or invalid it returns an empty store together with the error
// (a *CorruptError for invalid content). If the stored document could be neither read nor
// moved aside, Save returns an error wrapping ErrOverwriteRefused until a later Load succeeds.
type Gateway interface {
	Load() (*board.Store, error)
	Save(st *board.Store) error
	Describe() string
	// Raw returns the stored document without decoding or quarantining it. A missing document
	// is reported with an error wrapping os.ErrNotExist.
	Raw() ([]byte, error)
}

type Options struct {
	Backend     string
	Path        string
	LockTimeout time.Duration
	Logger      logging.Logger
}

func Open(opts Options) (Gateway, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		g := NewFileGateway(opts.Path)
		g.LockTimeout = opts.LockTimeout
		g.Logger = log
		return g, nil
	case BackendSQLite:
		g := NewSQLiteGateway(opts.Path)
		g.Logger = log
		return g, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s or %s)", opts.Backend, BackendFile, BackendSQLite)
	}
}

// LoadOrEmpty loads through g and logs any recoverable failure. The returned store is never nil.
func LoadOrEmpty(g Gateway, log logging.Logger) *board.Store {
	st, err := g.Load()
	if err != nil && log != nil {
		log.Warn("starting from an empty board store", "source", g.Describe(), "err", err)
	}
	if st == nil {
		st = board.New()
	}
	return st
}

// WithLogger points g's logging at log and returns it.
func WithLogger(g Gateway, log logging.Logger) Gateway {
	switch t := g.(type) {
	case *FileGateway:
		t.Logger = log
	case *SQLiteGateway:
		t.Logger = log
	}
	return g
}
