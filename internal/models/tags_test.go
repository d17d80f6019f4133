package models

import (
	"reflect"
	"testing"
)

func newTagged(t *testing.T, names ...string) *TagStorage {
	t.Helper()
	s := NewTagStorage()
	for _, name := range names {
		if _, ok := s.CreateTag(name, "", ""); !ok {
			t.Fatalf("CreateTag(%q) failed", name)
		}
	}
	return s
}

func TestCreateTagRejectsDuplicates(t *testing.T) {
	s := newTagged(t, "review")
	if _, ok := s.CreateTag("review", "#ff0000", ""); ok {
		t.Error("duplicate tag name was accepted")
	}
	if _, ok := s.CreateTag("", "", ""); ok {
		t.Error("empty tag name was accepted")
	}
	if len(s.Tags) != 1 {
		t.Errorf("got %d tags, want 1", len(s.Tags))
	}
}

func TestUpdateTagRenameRewritesAssignments(t *testing.T) {
	s := newTagged(t, "review")
	s.AssignTag("CommonModule.Foo", "review")
	s.AssignTag("Catalog.Products", "review")

	name := "needs-review"
	if !s.UpdateTag("review", TagUpdate{Name: &name}) {
		t.Fatal("rename failed")
	}

	for _, fqn := range []string{"CommonModule.Foo", "Catalog.Products"} {
		tags := s.ObjectTags(fqn)
		if len(tags) != 1 || tags[0].Name != "needs-review" {
			t.Errorf("%s tags = %v, want [needs-review]", fqn, tags)
		}
	}
	if s.FindTag("review") != nil {
		t.Error("old tag name still resolves")
	}
}

func TestUpdateTagRenameConflict(t *testing.T) {
	s := newTagged(t, "a", "b")
	name := "b"
	if s.UpdateTag("a", TagUpdate{Name: &name}) {
		t.Error("rename onto an existing tag succeeded")
	}
	if s.UpdateTag("missing", TagUpdate{}) {
		t.Error("update of a missing tag succeeded")
	}
}

func TestUpdateTagPartialFields(t *testing.T) {
	s := NewTagStorage()
	s.CreateTag("review", "#ff0000", "old")

	color := "#00ff00"
	if !s.UpdateTag("review", TagUpdate{Color: &color}) {
		t.Fatal("update failed")
	}
	tag := s.FindTag("review")
	if tag.Color != "#00ff00" {
		t.Errorf("color = %q", tag.Color)
	}
	if tag.Description != "old" {
		t.Errorf("description changed to %q", tag.Description)
	}
}

func TestRemoveTagStripsAssignments(t *testing.T) {
	s := newTagged(t, "review", "wip")
	s.AssignTag("CommonModule.Foo", "review")
	s.AssignTag("CommonModule.Foo", "wip")
	s.AssignTag("Catalog.Products", "review")

	if !s.RemoveTag("review") {
		t.Fatal("remove failed")
	}
	if got := s.ObjectTags("CommonModule.Foo"); len(got) != 1 || got[0].Name != "wip" {
		t.Errorf("CommonModule.Foo tags = %v, want [wip]", got)
	}
	// Catalog.Products had only the removed tag; its entry must be gone
	if _, ok := s.Assignments["Catalog.Products"]; ok {
		t.Error("empty assignment entry was left behind")
	}
	if s.RemoveTag("review") {
		t.Error("second remove reported success")
	}
}

func TestAssignTag(t *testing.T) {
	s := newTagged(t, "review")
	if s.AssignTag("CommonModule.Foo", "missing") {
		t.Error("assignment of an unknown tag succeeded")
	}
	if !s.AssignTag("CommonModule.Foo", "review") {
		t.Fatal("assign failed")
	}
	// Idempotent
	if !s.AssignTag("CommonModule.Foo", "review") {
		t.Fatal("repeated assign failed")
	}
	if got := s.Assignments["CommonModule.Foo"]; len(got) != 1 {
		t.Errorf("assignments = %v, want a single entry", got)
	}
}

func TestUnassignTagRemovesEmptyEntries(t *testing.T) {
	s := newTagged(t, "review")
	s.AssignTag("CommonModule.Foo", "review")

	if !s.UnassignTag("CommonModule.Foo", "review") {
		t.Fatal("unassign failed")
	}
	if _, ok := s.Assignments["CommonModule.Foo"]; ok {
		t.Error("empty assignment entry was left behind")
	}
	if s.UnassignTag("CommonModule.Foo", "review") {
		t.Error("second unassign reported success")
	}
}

func TestObjectTagsDropsUnresolvableNames(t *testing.T) {
	s := newTagged(t, "review")
	// An assignment pointing at a tag that no longer exists, as an
	// external edit could produce
	s.Assignments["CommonModule.Foo"] = []string{"review", "ghost"}

	got := s.ObjectTags("CommonModule.Foo")
	if len(got) != 1 || got[0].Name != "review" {
		t.Errorf("tags = %v, want [review]", got)
	}
}

func TestObjectsByTagSorted(t *testing.T) {
	s := newTagged(t, "review")
	s.AssignTag("Catalog.Zeta", "review")
	s.AssignTag("Catalog.Alpha", "review")

	got := s.ObjectsByTag("review")
	want := []string{"Catalog.Alpha", "Catalog.Zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("objects = %v, want %v", got, want)
	}
}

func TestFindObjectsByTags(t *testing.T) {
	s := newTagged(t, "review", "wip", "done")
	s.AssignTag("A", "review")
	s.AssignTag("A", "wip")
	s.AssignTag("B", "done")
	s.AssignTag("C", "wip")

	got := s.FindObjectsByTags([]string{"review", "wip"})
	if len(got) != 2 {
		t.Fatalf("matched %d objects, want 2", len(got))
	}
	if len(got["A"]) != 2 {
		t.Errorf("A matched %d tags, want 2", len(got["A"]))
	}
	if len(got["C"]) != 1 || got["C"][0].Name != "wip" {
		t.Errorf("C matched %v, want [wip]", got["C"])
	}
	if _, ok := got["B"]; ok {
		t.Error("B matched without carrying a wanted tag")
	}
}

func TestRemoveObject(t *testing.T) {
	s := newTagged(t, "review")
	s.AssignTag("A", "review")

	if !s.RemoveObject("A") {
		t.Fatal("remove failed")
	}
	if s.RemoveObject("A") {
		t.Error("second remove reported success")
	}
}

func TestRenameObjectMergesAssignments(t *testing.T) {
	s := newTagged(t, "review", "wip")
	s.AssignTag("Old", "review")
	s.AssignTag("Old", "wip")
	s.AssignTag("New", "review")

	if !s.RenameObject("Old", "New") {
		t.Fatal("rename failed")
	}
	if _, ok := s.Assignments["Old"]; ok {
		t.Error("old FQN still has assignments")
	}
	got := s.Assignments["New"]
	if len(got) != 2 {
		t.Errorf("merged assignments = %v, want review and wip once each", got)
	}
	if s.RenameObject("Old", "New") {
		t.Error("rename of an unknown FQN reported success")
	}
}
