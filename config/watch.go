package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Changed carries a reloaded configuration, or the error that prevented
// reloading it.
type Changed struct {
	Config *Config
	Err    error
}

// Watcher reloads config.toml whenever it is written.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	events   chan Changed
}

// Watch starts watching <profileDir>/config.toml. The profile directory is
// watched rather than the file so that editors replacing the file on save
// are seen too. Reloads are delivered on Events until ctx is done.
func Watch(ctx context.Context, profileDir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(profileDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", profileDir, err)
	}
	w := &Watcher{
		dir:      profileDir,
		watcher:  fw,
		debounce: 150 * time.Millisecond,
		events:   make(chan Changed, 1),
	}
	go w.run(ctx)
	return w, nil
}

// Events returns the channel reloads are delivered on. It is closed when
// the watcher stops.
func (w *Watcher) Events() <-chan Changed { return w.events }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.events)
	defer w.watcher.Close()

	target := Path(w.dir)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Editors often write in several steps; reload once they settle.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := Load(w.dir)
			if err != nil {
				log.Printf("[config] reload: %v", err)
			}
			select {
			case w.events <- Changed{Config: cfg, Err: err}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[config] watch: %v", err)
		}
	}
}
