package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for after the last change
// before rescanning.
const DefaultDebounce = 300 * time.Millisecond

// Watch scans root and passes the outcome to onScan, then rescans whenever
// class files or archives under root change. Bursts of changes closer than
// debounce apart trigger a single rescan. Watch returns when ctx is done or
// the watcher fails.
func (s *Scanner) Watch(ctx context.Context, root string, debounce time.Duration, onScan func(*Result, error)) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	w := &watch{fsw: fsw, root: filepath.Clean(root), isDir: info.IsDir()}
	dir := w.root
	if !w.isDir {
		dir = filepath.Dir(w.root)
	}
	if err := w.addTree(dir); err != nil {
		return err
	}

	onScan(s.Scan(ctx, root))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			log().Debugf("change %s: %s", ev.Op, ev.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log().Warningf("watch %s: %s", root, err)

		case <-fire:
			fire = nil
			res, err := s.Scan(ctx, root)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			onScan(res, err)
		}
	}
}

type watch struct {
	fsw   *fsnotify.Watcher
	root  string
	isDir bool
}

func (w *watch) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// relevant reports whether ev should trigger a rescan. New directories under
// a watched tree are added to the watcher and count as a change.
func (w *watch) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if !w.isDir {
		return filepath.Clean(ev.Name) == w.root
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				log().Warningf("%s", err)
			}
			return true
		}
	}
	return isClassFile(ev.Name) || isArchive(ev.Name)
}
