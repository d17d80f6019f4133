package store

import (
	"os"
	"testing"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

func newTagService(t *testing.T) (*TagService, Layout) {
	t.Helper()
	layout := NewLayout(t.TempDir(), "")
	return NewTagService(layout, NewNotifier()), layout
}

func TestTagLifecyclePersists(t *testing.T) {
	svc, layout := newTagService(t)

	if _, ok, err := svc.Create("erp", "review", "#ff0000", ""); !ok || err != nil {
		t.Fatalf("create: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.Assign("erp", "CommonModule.Foo", "review"); !ok || err != nil {
		t.Fatalf("assign: ok=%v err=%v", ok, err)
	}

	fresh := NewTagService(layout, NewNotifier())
	tags := fresh.ObjectTags("erp", "CommonModule.Foo")
	if len(tags) != 1 || tags[0].Name != "review" || tags[0].Color != "#ff0000" {
		t.Fatalf("persisted tags = %v", tags)
	}

	if ok, err := svc.Remove("erp", "review"); !ok || err != nil {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	fresh = NewTagService(layout, NewNotifier())
	if len(fresh.Tags("erp")) != 0 {
		t.Error("removed tag still in durable document")
	}
	if len(fresh.Storage("erp").Assignments) != 0 {
		t.Error("removed tag left assignment entries in durable document")
	}
}

func TestTagRenameCascadePersists(t *testing.T) {
	svc, layout := newTagService(t)
	svc.Create("erp", "review", "", "")
	svc.Assign("erp", "CommonModule.Foo", "review")
	svc.Assign("erp", "Catalog.Products", "review")

	name := "needs-review"
	if ok, err := svc.Update("erp", "review", models.TagUpdate{Name: &name}); !ok || err != nil {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}

	fresh := NewTagService(layout, NewNotifier())
	for _, fqn := range []string{"CommonModule.Foo", "Catalog.Products"} {
		tags := fresh.ObjectTags("erp", fqn)
		if len(tags) != 1 || tags[0].Name != "needs-review" {
			t.Errorf("%s tags after rename = %v", fqn, tags)
		}
	}
}

func TestAssignUnknownTagDoesNotPersist(t *testing.T) {
	svc, layout := newTagService(t)

	if ok, _ := svc.Assign("erp", "CommonModule.Foo", "missing"); ok {
		t.Fatal("assignment of an unknown tag succeeded")
	}
	if _, err := os.Stat(layout.TagsPath("erp")); !os.IsNotExist(err) {
		t.Error("rejected mutation created a durable document")
	}
}

func TestTagInvalidateReloadsFromDisk(t *testing.T) {
	svc, layout := newTagService(t)
	svc.Create("erp", "review", "", "")

	doc := "tags:\n  - name: external\nassignments:\n  Catalog.Products:\n    - external\n"
	if err := os.WriteFile(layout.TagsPath("erp"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	svc.Invalidate("erp")
	if svc.FindTag("erp", "external") == nil {
		t.Error("invalidated cache did not reload from disk")
	}
	if got := svc.ObjectsByTag("erp", "external"); len(got) != 1 || got[0] != "Catalog.Products" {
		t.Errorf("external assignments = %v", got)
	}
	if svc.FindTag("erp", "review") != nil {
		t.Error("stale in-memory state survived the reload")
	}
}

func TestTagMutationEvents(t *testing.T) {
	svc, _ := newTagService(t)
	var collections, assignments int
	svc.Notifier().Subscribe(ChangeListener{
		OnCollectionChanged:  func(string) { collections++ },
		OnAssignmentsChanged: func(string, string) { assignments++ },
	})

	svc.Create("erp", "review", "", "")
	svc.Assign("erp", "CommonModule.Foo", "review")
	svc.Unassign("erp", "CommonModule.Foo", "review")
	svc.Remove("erp", "review")

	if collections != 2 {
		t.Errorf("collection events = %d, want 2", collections)
	}
	if assignments != 2 {
		t.Errorf("assignment events = %d, want 2", assignments)
	}
}
