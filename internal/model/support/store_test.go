package support

import "testing"

func TestMemoryStoreByLanguage(t *testing.T) {
	store := NewMemoryStore(Seed())

	en := store.ByLanguage("en")
	if len(en) != 3 {
		t.Fatalf("expected 3 english documents, got %d", len(en))
	}
	if en[0].Topic != TopicAnxiety {
		t.Fatalf("expected library order to be preserved, got %s first", en[0].Topic)
	}

	if got := store.ByLanguage("fr"); len(got) != 0 {
		t.Fatalf("expected no french documents, got %d", len(got))
	}
}

func TestMemoryStoreListIsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	items := store.List()
	items[0].Text = "mutated"

	if store.List()[0].Text == "mutated" {
		t.Fatal("List must return a copy")
	}
}
