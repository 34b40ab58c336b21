// Package backup writes periodic snapshots of the store to disk and restores
// from them. Archives are MessagePack-encoded and carry a format version so a
// later revision can still read old archives.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage"
)

const (
	archiveVersion = 1
	archiveExt     = ".msgpack"
	archivePrefix  = "backup_"
)

// Archive is the on-disk backup envelope
type Archive struct {
	Version   int            `msgpack:"version"`
	CreatedAt string         `msgpack:"createdAt"`
	Data      domain.AppData `msgpack:"data"`
}

// Manager writes and restores backup archives
type Manager struct {
	store     storage.Store
	dir       string
	retention int // archives to keep, oldest pruned first
	log       zerolog.Logger
}

// NewManager creates a backup manager writing into dir, keeping at most
// retention archives. A retention of 0 disables pruning.
func NewManager(store storage.Store, dir string, retention int, log zerolog.Logger) *Manager {
	return &Manager{
		store:     store,
		dir:       dir,
		retention: retention,
		log:       log.With().Str("component", "backup").Logger(),
	}
}

// Backup snapshots the store into a new timestamped archive and prunes old
// archives past the retention limit. Returns the path of the archive written.
func (m *Manager) Backup() (string, error) {
	data, err := m.store.ExportData()
	if err != nil {
		return "", fmt.Errorf("failed to snapshot store: %w", err)
	}

	archive := Archive{
		Version:   archiveVersion,
		CreatedAt: domain.NowISO(),
		Data:      data,
	}
	raw, err := msgpack.Marshal(&archive)
	if err != nil {
		return "", fmt.Errorf("failed to encode archive: %w", err)
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := archivePrefix + time.Now().UTC().Format("20060102T150405") + archiveExt
	path := filepath.Join(m.dir, name)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	m.log.Info().Str("archive", name).Int("bytes", len(raw)).Msg("Backup written")

	if err := m.prune(); err != nil {
		m.log.Warn().Err(err).Msg("Backup pruning failed")
	}
	return path, nil
}

// Restore replaces the entire store contents with the given archive
func (m *Manager) Restore(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	var archive Archive
	if err := msgpack.Unmarshal(raw, &archive); err != nil {
		return fmt.Errorf("failed to decode archive: %w", err)
	}
	if archive.Version != archiveVersion {
		return fmt.Errorf("unsupported archive version %d", archive.Version)
	}

	if err := m.store.ImportData(archive.Data); err != nil {
		return fmt.Errorf("failed to import archive: %w", err)
	}

	m.log.Info().Str("archive", filepath.Base(path)).Str("createdAt", archive.CreatedAt).Msg("Backup restored")
	return nil
}

// List returns the archive paths in the backup directory, newest first
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveExt) {
			continue
		}
		paths = append(paths, filepath.Join(m.dir, name))
	}
	// Timestamped names sort chronologically
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

func (m *Manager) prune() error {
	if m.retention <= 0 {
		return nil
	}
	paths, err := m.List()
	if err != nil {
		return err
	}
	for _, path := range paths[minInt(m.retention, len(paths)):] {
		if err := os.Remove(path); err != nil {
			return err
		}
		m.log.Debug().Str("archive", filepath.Base(path)).Msg("Old backup pruned")
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Job adapts a Manager to the scheduler's job contract
type Job struct {
	manager *Manager
}

// NewJob wraps the manager for scheduled execution
func NewJob(manager *Manager) *Job {
	return &Job{manager: manager}
}

func (j *Job) Name() string { return "backup" }

func (j *Job) Run() error {
	_, err := j.manager.Backup()
	return err
}
