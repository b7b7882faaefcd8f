// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Event is one reload of the watched file.
type Event struct {
	Config *Config
	Err    error
}

// Watcher reloads a config file whenever it changes.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	events   chan Event
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// Watch starts watching path. The parent directory is watched rather than
// the file so atomic saves (write temp, rename) are seen.
func Watch(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce,
		events:   make(chan Event, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.processEvents()
	return w, nil
}

// Events delivers a freshly loaded config (or the load error) after each
// change.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops watching. Events is closed once the watcher goroutine exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	defer close(w.events)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := LoadFromPath(w.path)
			select {
			case w.events <- Event{Config: cfg, Err: err}:
			case <-w.done:
				return
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
