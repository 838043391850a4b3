package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"taskflow/internal/board"
	"taskflow/internal/logging"
)

const (
	DefaultLockTimeout = 5 * time.Second
	lockRetryDelay     = 50 * time.Millisecond
	quarantineLayout   = "20060102-150405"
)

// FileGateway stores the document in a single JSON file. Writers serialize on an advisory
// lock file next to the document.
type FileGateway struct {
	Path        string
	LockTimeout time.Duration
	Logger      logging.Logger

	now func() time.Time
	// held is set while the document on disk must not be overwritten.
	held error
}

func NewFileGateway(path string) *FileGateway {
	return &FileGateway{
		Path:        filepath.Clean(path),
		LockTimeout: DefaultLockTimeout,
		Logger:      logging.Nop(),
		now:         time.Now,
	}
}

func (g *FileGateway) Describe() string { return "file:" + g.Path }

func (g *FileGateway) logger() logging.Logger {
	if g.Logger == nil {
		return logging.Nop()
	}
	return g.Logger
}

func (g *FileGateway) clock() time.Time {
	if g.now == nil {
		return time.Now()
	}
	return g.now()
}

func (g *FileGateway) lockPath() string { return g.Path + ".lock" }

func (g *FileGateway) Raw() ([]byte, error) {
	return os.ReadFile(g.Path)
}

func (g *FileGateway) Load() (*board.Store, error) {
	b, err := g.Raw()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			g.held = nil
			g.logger().Debug("no board document yet", "path", g.Path)
			return board.New(), nil
		}
		g.held = err
		g.logger().Error("board document is unreadable; saves are disabled", "path", g.Path, "err", err)
		return board.New(), fmt.Errorf("read %s: %w", g.Path, err)
	}

	st, err := Decode(b)
	if err != nil {
		cerr := &CorruptError{Path: g.Path, Err: err}
		if dest, qerr := g.quarantine(); qerr != nil {
			g.held = qerr
			g.logger().Warn("could not quarantine corrupt document; saves are disabled", "path", g.Path, "err", qerr)
		} else {
			g.held = nil
			cerr.Quarantined = dest
		}
		g.logger().Error("board document is corrupt", "path", g.Path, "quarantined", cerr.Quarantined, "err", err)
		return board.New(), cerr
	}
	g.held = nil
	g.logger().Debug("loaded board document", "path", g.Path, "boards", st.Len())
	return st, nil
}

// quarantine moves the current document aside so the next save cannot overwrite it.
func (g *FileGateway) quarantine() (string, error) {
	dest := g.Path + ".corrupt-" + g.clock().Format(quarantineLayout)
	for i := 2; ; i++ {
		_, err := os.Stat(dest)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			return "", err
		}
		dest = fmt.Sprintf("%s.corrupt-%s-%d", g.Path, g.clock().Format(quarantineLayout), i)
	}
	if err := os.Rename(g.Path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (g *FileGateway) Save(st *board.Store) error {
	if g.held != nil {
		return refuseOverwrite(g.Path, g.held)
	}
	b, err := Encode(st)
	if err != nil {
		return err
	}
	dir, err := ensureParent(g.Path)
	if err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	timeout := g.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	lock := flock.New(g.lockPath())
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", g.lockPath(), err)
	}
	if !locked {
		return fmt.Errorf("lock %s: timed out after %s", g.lockPath(), timeout)
	}
	defer func() { _ = lock.Unlock() }()

	if err := atomicWriteFile(dir, filepath.Base(g.Path)+".*.tmp", g.Path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", g.Path, err)
	}
	g.logger().Debug("saved board document", "path", g.Path, "bytes", len(b))
	return nil
}
