package store

import (
	"os"
	"testing"
	"time"
)

func newWatcherFixture(t *testing.T) (*Watcher, *GroupService, *TagService, Layout, chan string) {
	t.Helper()
	layout := NewLayout(t.TempDir(), "")
	notifier := NewNotifier()
	groups := NewGroupService(layout, notifier)
	tags := NewTagService(layout, notifier)

	w, err := NewWatcher(layout, groups, tags, notifier)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	changed := make(chan string, 16)
	notifier.Subscribe(ChangeListener{
		OnCollectionChanged: func(project string) { changed <- project },
	})
	return w, groups, tags, layout, changed
}

func waitForEvent(t *testing.T, changed chan string, project string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-changed:
			if got == project {
				return
			}
		case <-deadline:
			t.Fatal("no change event before deadline")
		}
	}
}

func TestWatcherInvalidatesOnExternalGroupEdit(t *testing.T) {
	w, groups, _, layout, changed := newWatcherFixture(t)

	// Warm the cache so a stale entry exists to invalidate
	groups.Create("erp", "Old", "", "")
	if err := w.WatchProject("erp"); err != nil {
		t.Fatalf("watch project: %v", err)
	}
	w.Start()
	drain(changed)

	doc := "groups:\n  - name: External\n    order: 0\n"
	if err := os.WriteFile(layout.GroupsPath("erp"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	waitForEvent(t, changed, "erp")
	if groups.FindGroup("erp", "External") == nil {
		t.Error("cache still serves stale groups after the external edit")
	}
}

func TestWatcherInvalidatesOnExternalTagEdit(t *testing.T) {
	w, _, tags, layout, changed := newWatcherFixture(t)

	tags.Create("erp", "review", "", "")
	if err := w.WatchProject("erp"); err != nil {
		t.Fatalf("watch project: %v", err)
	}
	w.Start()
	drain(changed)

	doc := "tags:\n  - name: external\n"
	if err := os.WriteFile(layout.TagsPath("erp"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	waitForEvent(t, changed, "erp")
	if tags.FindTag("erp", "external") == nil {
		t.Error("cache still serves stale tags after the external edit")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	w, groups, _, layout, changed := newWatcherFixture(t)

	groups.Create("erp", "Old", "", "")
	if err := w.WatchProject("erp"); err != nil {
		t.Fatalf("watch project: %v", err)
	}
	w.Start()
	drain(changed)

	// Neither a temp file nor a foreign file is an annotation document
	dir := layout.ProjectDir("erp")
	os.WriteFile(dir+"/groups.yml.tmp", []byte("partial"), 0644)
	os.WriteFile(dir+"/notes.txt", []byte("hello"), 0644)

	select {
	case got := <-changed:
		t.Errorf("unexpected change event for %q", got)
	case <-time.After(300 * time.Millisecond):
	}
	if groups.FindGroup("erp", "Old") == nil {
		t.Error("cache was invalidated by an unrelated file")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, _, _, _, _ := newWatcherFixture(t)
	w.Start()
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func drain(ch chan string) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
