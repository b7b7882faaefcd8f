// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *BackupStore {
	t.Helper()
	store, err := NewBackupStoreWithDir(filepath.Join(t.TempDir(), "backups"))
	if err != nil {
		t.Fatalf("NewBackupStoreWithDir() error = %v", err)
	}
	return store
}

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		tm := times[i]
		if i < len(times)-1 {
			i++
		}
		return tm
	}
}

func TestBackupStore_SaveIsVerbatim(t *testing.T) {
	store := newTestStore(t)
	raw := []byte(`{"providers": [],   "agent_configs": [] }` + "\n")

	path, err := store.Save(raw)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(raw) {
		t.Errorf("saved bytes = %q, want %q", got, raw)
	}

	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestBackupStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	store.now = fixedClock(base, base.Add(time.Minute), base.Add(2*time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := store.Save([]byte("{}")); err != nil {
			t.Fatal(err)
		}
	}

	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 3 {
		t.Fatalf("List() len = %d, want 3", len(metas))
	}
	if metas[0].Name != "projectmate-backup-20261014-090200.json" {
		t.Errorf("newest = %q", metas[0].Name)
	}

	latest, err := store.Latest()
	if err != nil || latest.Name != metas[0].Name {
		t.Errorf("Latest() = %v, %v", latest, err)
	}
}

func TestBackupStore_SameSecondGetsSuffix(t *testing.T) {
	store := newTestStore(t)
	store.now = fixedClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	p1, _ := store.Save([]byte("1"))
	p2, _ := store.Save([]byte("2"))
	if p1 == p2 {
		t.Fatal("second save overwrote the first")
	}
	if filepath.Base(p2) != "projectmate-backup-20260102-030405-2.json" {
		t.Errorf("second name = %q", filepath.Base(p2))
	}
}

func TestBackupStore_EnforceLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxBackups = 2
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	store.now = fixedClock(base, base.Add(time.Second), base.Add(2*time.Second))

	for i := 0; i < 3; i++ {
		store.Save([]byte("{}"))
	}
	metas, _ := store.List()
	if len(metas) != 2 {
		t.Fatalf("List() len = %d, want 2", len(metas))
	}
	if metas[1].Name != "projectmate-backup-20261014-090001.json" {
		t.Errorf("oldest kept = %q", metas[1].Name)
	}
}

func TestBackupStore_LoadAndDelete(t *testing.T) {
	store := newTestStore(t)
	path, _ := store.Save([]byte(`{"a":1}`))
	name := filepath.Base(path)

	data, err := store.Load(name)
	if err != nil || string(data) != `{"a":1}` {
		t.Errorf("Load() = %q, %v", data, err)
	}
	if _, err := store.Load("../etc/passwd"); err == nil {
		t.Error("Load() accepted a path outside the store")
	}
	if err := store.Delete(name); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(name); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("Load() after delete error = %v", err)
	}
	if err := store.Delete(name); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("Delete() twice error = %v", err)
	}
}
