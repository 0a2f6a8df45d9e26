// Package watchfs wakes the watch loop early when new captures appear,
// instead of waiting for the full poll interval.
package watchfs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Nudger watches one directory (non-recursive) for files with Ext.
type Nudger struct {
	Dir    string
	Ext    string        // e.g. "flv"; empty matches everything.
	Settle time.Duration // Quiet period after the last event before waking.
	OnErr  func(error)   // Optional; watcher errors are otherwise ignored.
}

// Run sends on wake once Settle has passed without further matching events.
// Sends never block: if the loop is busy the nudge is dropped, since the
// next pass will scan the directory anyway. Run returns when ctx is done.
func (n *Nudger) Run(ctx context.Context, wake chan<- struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", n.Dir, err)
	}
	defer w.Close()
	if err := w.Add(n.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", n.Dir, err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 || !n.matches(ev.Name) {
				continue
			}
			timer.Reset(n.Settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if n.OnErr != nil {
				n.OnErr(err)
			}
		case <-timer.C:
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}

func (n *Nudger) matches(name string) bool {
	if n.Ext == "" {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.EqualFold(ext, strings.TrimPrefix(n.Ext, "."))
}
