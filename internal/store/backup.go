package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"taskflow/internal/board"
)

const (
	backupPrefix = "taskflow-"
	backupSuffix = ".json.zst"
	backupLayout = "20060102-150405.000"

	DefaultBackupKeep = 10
)

// Backups manages zstd-compressed snapshots of the board document in Dir. Keep bounds how many
// snapshots survive a Create; zero or less keeps everything.
type Backups struct {
	Dir  string
	Keep int

	now func() time.Time
}

type BackupInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewBackups(dir string, keep int) *Backups {
	return &Backups{Dir: filepath.Clean(dir), Keep: keep, now: time.Now}
}

func (b *Backups) clock() time.Time {
	if b.now == nil {
		return time.Now()
	}
	return b.now()
}

// Create snapshots st and prunes old snapshots beyond Keep.
func (b *Backups) Create(st *board.Store) (BackupInfo, error) {
	doc, err := Encode(st)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup dir: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return BackupInfo{}, err
	}
	if _, err := enc.Write(doc); err != nil {
		_ = enc.Close()
		return BackupInfo{}, err
	}
	if err := enc.Close(); err != nil {
		return BackupInfo{}, err
	}

	at := b.clock()
	name := backupPrefix + at.Format(backupLayout) + backupSuffix
	path := filepath.Join(b.Dir, name)
	if _, err := os.Stat(path); err == nil {
		return BackupInfo{}, fmt.Errorf("backup %s already exists", name)
	}
	if err := atomicWriteFile(b.Dir, name+".*.tmp", path, buf.Bytes(), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write backup: %w", err)
	}
	if err := b.prune(); err != nil {
		return BackupInfo{}, err
	}
	return BackupInfo{Name: name, Path: path, Size: int64(buf.Len()), CreatedAt: at}, nil
}

// List returns snapshots newest first. A missing directory is an empty list.
func (b *Backups) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}
	out := []BackupInfo{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
		at, err := time.ParseInLocation(backupLayout, stamp, time.Local)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, BackupInfo{
			Name:      name,
			Path:      filepath.Join(b.Dir, name),
			Size:      info.Size(),
			CreatedAt: at,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (b *Backups) prune() error {
	if b.Keep <= 0 {
		return nil
	}
	all, err := b.List()
	if err != nil {
		return err
	}
	for _, old := range all[min(b.Keep, len(all)):] {
		if err := os.Remove(old.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("prune backup %s: %w", old.Name, err)
		}
	}
	return nil
}

// Read decompresses and decodes a snapshot. name may be a bare file name or "latest".
func (b *Backups) Read(name string) (*board.Store, error) {
	path, err := b.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	doc, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", filepath.Base(path), err)
	}
	st, err := Decode(doc)
	if err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	return st, nil
}

// Restore replaces the document behind g with the snapshot. The snapshot is validated before
// anything is written.
func (b *Backups) Restore(name string, g Gateway) (*board.Store, error) {
	st, err := b.Read(name)
	if err != nil {
		return nil, err
	}
	if err := g.Save(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (b *Backups) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "latest" {
		all, err := b.List()
		if err != nil {
			return "", err
		}
		if len(all) == 0 {
			return "", fmt.Errorf("no backups in %s", b.Dir)
		}
		return all[0].Path, nil
	}
	if filepath.Base(name) != name {
		return "", fmt.Errorf("backup name %q must not contain a path", name)
	}
	path := filepath.Join(b.Dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup %q: %w", name, err)
	}
	return path, nil
}
