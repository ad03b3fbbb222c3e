package convert

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
)

// DefaultDebounce absorbs the burst of events an editor produces for one save
const DefaultDebounce = 500 * time.Millisecond

// PageCallback receives the result of every reconversion triggered by the watcher
type PageCallback func(*PageResult, error)

// Watcher reconverts pages when they are written
type Watcher struct {
	runner   *Runner
	watcher  *fsnotify.Watcher
	log      *zap.SugaredLogger
	debounce time.Duration
	callback PageCallback

	mu     sync.Mutex
	timers map[string]*time.Timer
	// ownWrites holds pages we just wrote so their events do not trigger a reconversion
	ownWrites map[string]bool
	wg        sync.WaitGroup
}

// NewWatcher watches dir and every subdirectory for page writes
func NewWatcher(runner *Runner, dir string, callback PageCallback) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", dir)
	}

	return &Watcher{
		runner:    runner,
		watcher:   fw,
		log:       runner.log,
		debounce:  DefaultDebounce,
		callback:  callback,
		timers:    make(map[string]*time.Timer),
		ownWrites: make(map[string]bool),
	}, nil
}

// SetDebounce changes the quiet period before a page is reconverted
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start begins watching in the background
func (w *Watcher) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.watchLoop()
	}()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, w.runner.extension) {
				continue
			}
			if w.checkOwnWrite(event.Name) {
				w.log.Debugw("watcher ignoring own write", logger.FieldFile, event.Name)
				continue
			}
			w.log.Debugw("page changed", logger.FieldFile, event.Name, "op", event.Op.String())
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces events per page
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t := w.timers[path]; t != nil {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.reconvert(path)
	})
}

func (w *Watcher) reconvert(path string) {
	// mark first: the write inside ConvertFile raises the event we must ignore
	w.markOwnWrite(path)
	page, err := w.runner.ConvertFile(path)
	if err != nil {
		w.log.Errorw("reconversion failed", logger.FieldDocument, path, logger.FieldError, err)
	} else if page.Changed {
		w.log.Infow("page reconverted", logger.FieldDocument, path, logger.FieldCount, page.Markers)
	}
	if err != nil || !page.Changed || w.runner.dryRun {
		w.checkOwnWrite(path)
	}
	if w.callback != nil {
		w.callback(page, err)
	}
}

func (w *Watcher) markOwnWrite(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ownWrites[path] = true
}

// checkOwnWrite checks and clears the own-write flag for path
func (w *Watcher) checkOwnWrite(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ownWrites[path] {
		delete(w.ownWrites, path)
		return true
	}
	return false
}

// Stop stops watching and cancels pending reconversions
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	return err
}
