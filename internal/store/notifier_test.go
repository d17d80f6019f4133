package store

import "testing"

func TestNotifierPanicDoesNotAbortFanOut(t *testing.T) {
	n := NewNotifier()
	var before, after bool
	n.Subscribe(ChangeListener{OnCollectionChanged: func(string) { before = true }})
	n.Subscribe(ChangeListener{OnCollectionChanged: func(string) { panic("listener bug") }})
	n.Subscribe(ChangeListener{OnCollectionChanged: func(string) { after = true }})

	n.CollectionChanged("erp")

	if !before || !after {
		t.Errorf("healthy listeners skipped: before=%v after=%v", before, after)
	}
}

func TestNotifierUnsubscribe(t *testing.T) {
	n := NewNotifier()
	var calls int
	id := n.Subscribe(ChangeListener{OnAssignmentsChanged: func(string, string) { calls++ }})

	n.AssignmentsChanged("erp", "CommonModule.Foo")
	n.Unsubscribe(id)
	n.AssignmentsChanged("erp", "CommonModule.Foo")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	// Unknown tokens are ignored
	n.Unsubscribe(id)
}

func TestNotifierSubscribeDuringFanOut(t *testing.T) {
	n := NewNotifier()
	n.Subscribe(ChangeListener{OnCollectionChanged: func(string) {
		n.Subscribe(ChangeListener{})
	}})

	// Must not deadlock or panic; the new listener joins the next fan-out
	n.CollectionChanged("erp")
	n.CollectionChanged("erp")
}

func TestNotifierNilCallbacks(t *testing.T) {
	n := NewNotifier()
	n.Subscribe(ChangeListener{})
	n.CollectionChanged("erp")
	n.AssignmentsChanged("erp", "CommonModule.Foo")
}
