package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// OnVideo is called once a new video file in the inbox has settled.
type OnVideo func(path string)

// Watcher monitors the inbox directory and registers dropped-in game film
// automatically. Writes are debounced so large copies are only reported
// once the file stops growing.
type Watcher struct {
	dir      string
	callback OnVideo
	watcher  *fsnotify.Watcher
	log      *logrus.Entry

	mu       sync.Mutex
	debounce map[string]*time.Timer
	stop     chan struct{}
}

func New(dir string, cb OnVideo, log *logrus.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		callback: cb,
		watcher:  fw,
		log:      log.WithField("component", "watcher"),
		debounce: make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	go w.eventLoop()
	w.log.WithField("dir", w.dir).Info("inbox watcher started")
	return nil
}

func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".part") {
		return
	}
	if !isVideoExtension(strings.ToLower(filepath.Ext(event.Name))) {
		return
	}

	// Debounce: each write resets the timer, so the callback fires only
	// after the file has been quiet for the settle window.
	w.mu.Lock()
	if timer, ok := w.debounce[event.Name]; ok {
		timer.Stop()
	}
	name := event.Name
	w.debounce[name] = time.AfterFunc(2*time.Second, func() {
		w.mu.Lock()
		delete(w.debounce, name)
		w.mu.Unlock()

		if info, err := os.Stat(name); err != nil || info.IsDir() {
			return
		}
		w.callback(name)
	})
	w.mu.Unlock()
}

func isVideoExtension(ext string) bool {
	switch ext {
	case ".mp4", ".mkv", ".avi", ".mov", ".m4v", ".ts", ".m2ts", ".mpg", ".mpeg", ".webm":
		return true
	}
	return false
}
