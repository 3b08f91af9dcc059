package session

import "testing"

func TestMemoryStoreFind(t *testing.T) {
	store := NewMemoryStore(Seed())

	got, ok := store.Find("Speech Therapy")
	if !ok {
		t.Fatal("expected Speech Therapy to be found")
	}
	if got.Label != "Speech Therapy" {
		t.Fatalf("unexpected label %q", got.Label)
	}

	if _, ok := store.Find("Art Therapy"); ok {
		t.Fatal("expected unknown type to be missing")
	}
}

func TestMemoryStoreListIsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	items := store.List()
	items[0].Label = "changed"

	if store.List()[0].Label == "changed" {
		t.Fatal("List must not expose internal slice")
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 session types, got %d", len(items))
	}
}
