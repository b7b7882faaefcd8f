// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/projectmate/internal/util"
)

// ErrBackupNotFound is returned when a backup doesn't exist.
var ErrBackupNotFound = errors.New("backup not found")

const (
	backupPrefix     = "projectmate-backup-"
	backupSuffix     = ".json"
	backupTimeFormat = "20060102-150405"
)

// BackupMeta describes a saved backup.
type BackupMeta struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// =============================================================================
// BACKUP STORE
// =============================================================================

// BackupStore handles backup persistence.
type BackupStore struct {
	// BaseDir is the directory for storing backups
	// Default: ~/.projectmate/backups/
	BaseDir string

	// MaxBackups limits stored backups (0 = unlimited)
	MaxBackups int

	now func() time.Time
}

// NewBackupStore creates a store under the user's home directory.
func NewBackupStore() (*BackupStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewBackupStoreWithDir(filepath.Join(homeDir, ".projectmate", "backups"))
}

// NewBackupStoreWithDir creates a store with a custom directory.
func NewBackupStoreWithDir(baseDir string) (*BackupStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &BackupStore{
		BaseDir:    baseDir,
		MaxBackups: 20,
		now:        time.Now,
	}, nil
}

// Save writes data verbatim and returns the file path.
// Backups can carry API keys, so files are owner-only.
func (s *BackupStore) Save(data []byte) (string, error) {
	ts := s.now()
	name := backupPrefix + ts.Format(backupTimeFormat) + backupSuffix
	path := filepath.Join(s.BaseDir, name)

	// Two backups in the same second get a counter suffix.
	for i := 2; fileExists(path); i++ {
		name = fmt.Sprintf("%s%s-%d%s", backupPrefix, ts.Format(backupTimeFormat), i, backupSuffix)
		path = filepath.Join(s.BaseDir, name)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return "", err
	}
	if s.MaxBackups > 0 {
		s.enforceLimit()
	}
	return path, nil
}

// List returns saved backups, most recent first.
func (s *BackupStore) List() ([]BackupMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupMeta{}, nil
		}
		return nil, err
	}

	metas := []BackupMeta{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		metas = append(metas, BackupMeta{
			Name:      name,
			Path:      filepath.Join(s.BaseDir, name),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		})
	}

	// Names embed the timestamp, so name order is creation order.
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Name > metas[j].Name
	})
	return metas, nil
}

// Load reads a backup by name.
func (s *BackupStore) Load(name string) ([]byte, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid backup name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.BaseDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBackupNotFound
		}
		return nil, err
	}
	return data, nil
}

// Latest returns the most recent backup.
func (s *BackupStore) Latest() (*BackupMeta, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, ErrBackupNotFound
	}
	return &metas[0], nil
}

// Delete removes a backup by name.
func (s *BackupStore) Delete(name string) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name %q", name)
	}
	if err := os.Remove(filepath.Join(s.BaseDir, name)); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return err
	}
	return nil
}

// enforceLimit removes the oldest backups beyond MaxBackups.
func (s *BackupStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxBackups {
		return
	}
	for _, m := range metas[s.MaxBackups:] {
		s.Delete(m.Name)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
