// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps configuration backups on disk.
//
// A backup is stored exactly as the backend produced it. Files are written
// atomically and named by creation time so listing them sorts naturally.
//
// # Key Types
//
//   - BackupStore: directory of saved backups
//   - BackupMeta: lightweight metadata for listing
//
// # Usage
//
//	store, err := storage.NewBackupStoreWithDir(dir)
//	path, err := store.Save(raw)
//	metas, err := store.List()
//	data, err := store.Load(metas[0].Name)
package storage
