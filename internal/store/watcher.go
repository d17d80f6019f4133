package store

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the durable annotation files for edits made outside
// the store's own write path — a version-control checkout, a manual edit,
// a sync from another machine — and drops the affected cache entry so the
// next access reloads current content. The store's own writes land
// through the same rename and trigger the same invalidation; that is
// harmless, because reloading yields the content just written.
type Watcher struct {
	layout   Layout
	groups   *GroupService
	tags     *TagService
	notifier *Notifier

	fw *fsnotify.Watcher

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewWatcher returns a watcher wired to the given services. Call
// WatchProject for each project of interest, then Start.
func NewWatcher(layout Layout, groups *GroupService, tags *TagService, notifier *Notifier) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	return &Watcher{
		layout:   layout,
		groups:   groups,
		tags:     tags,
		notifier: notifier,
		fw:       fw,
		done:     make(chan struct{}),
	}, nil
}

// WatchProject begins observing a project's annotation directory,
// creating it when it does not exist yet (fsnotify cannot watch a missing
// directory).
func (w *Watcher) WatchProject(project string) error {
	dir := w.layout.ProjectDir(project)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// Start runs the event loop in a background goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("annotation watcher: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	// Temp files from atomic writes are not documents.
	if strings.HasSuffix(ev.Name, ".tmp") {
		return
	}
	project, file, ok := w.layout.ProjectForPath(ev.Name)
	if !ok {
		return
	}

	switch file {
	case GroupsFileName:
		w.groups.Invalidate(project)
	case TagsFileName:
		w.tags.Invalidate(project)
	}
	w.notifier.CollectionChanged(project)
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.fw.Close()
}
