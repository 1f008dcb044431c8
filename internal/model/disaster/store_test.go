package disaster

import (
	"errors"
	"testing"
)

func TestMemoryStoreAttachStream(t *testing.T) {
	store := NewMemoryStore(Seed())

	if err := store.AttachStream("disaster_2", "stream_new"); err != nil {
		t.Fatalf("AttachStream err: %v", err)
	}

	event, ok := store.FindByID("disaster_2")
	if !ok {
		t.Fatal("expected disaster_2 to exist")
	}
	if got := event.AidStreams[len(event.AidStreams)-1]; got != "stream_new" {
		t.Fatalf("expected stream_new to be attached, got %s", got)
	}
}

func TestMemoryStoreAttachStreamUnknown(t *testing.T) {
	store := NewMemoryStore(Seed())
	if err := store.AttachStream("missing", "s"); !errors.Is(err, ErrDisasterNotFound) {
		t.Fatalf("expected ErrDisasterNotFound, got %v", err)
	}
}

func TestMemoryStoreSnapshotsAreIsolated(t *testing.T) {
	store := NewMemoryStore(Seed())
	list := store.List()
	list[0].AidStreams[0] = "tampered"

	event, _ := store.FindByID(list[0].ID)
	if event.AidStreams[0] == "tampered" {
		t.Fatal("List must return isolated copies")
	}
}
