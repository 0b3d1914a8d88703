// Package watcher reports debounced changes to the einview configuration
// directory.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kobzarvs/einview/internal/logger"
)

// Watcher monitors config.toml, languages.toml and theme files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	themeDir  string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Dir         string
	DebounceDur time.Duration
}

// DefaultConfig watches dir with a short debounce suited to editor saves.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:         dir,
		DebounceDur: 200 * time.Millisecond,
	}
}

func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dir:       filepath.Clean(cfg.Dir),
		themeDir:  filepath.Join(filepath.Clean(cfg.Dir), "theme"),
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. The returned channel receives one signal per burst of
// relevant changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.dir, err)
	}
	if err := w.fsWatcher.Add(w.themeDir); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("watcher: theme directory not watched", "dir", w.themeDir, "error", err)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			logger.Debug("watcher: config event", "name", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: fsnotify error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent accepts writes, creates and renames of the config files.
// Renames cover editors that save through a temporary file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	dir := filepath.Dir(event.Name)
	base := filepath.Base(event.Name)
	switch dir {
	case w.dir:
		return base == "config.toml" || base == "languages.toml"
	case w.themeDir:
		return filepath.Ext(base) == ".toml"
	}
	return false
}
