package eventstore

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"
)

const testBuildID = "build-123"

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store := newTestStore(t)

	ctx := t.Context()
	buildID := testBuildID
	eventType := "TestEvent"
	payload := []byte(`{"test": "data"}`)
	metadata := map[string]string{"key": "value"}

	if err := store.Append(ctx, buildID, eventType, payload, metadata); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	events, err := store.GetByBuildID(ctx, buildID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.BuildID() != buildID {
		t.Errorf("expected build_id %s, got %s", buildID, event.BuildID())
	}
	if event.Type() != eventType {
		t.Errorf("expected event_type %s, got %s", eventType, event.Type())
	}
	if !bytes.Equal(event.Payload(), payload) {
		t.Errorf("expected payload %s, got %s", payload, event.Payload())
	}
	if event.Metadata()["key"] != "value" {
		t.Errorf("expected metadata key=value, got %v", event.Metadata())
	}
}

func TestEventStoreGetRange(t *testing.T) {
	store := newTestStore(t)

	ctx := t.Context()
	now := time.Now()

	for range 3 {
		if err := store.Append(ctx, "build-1", "Event", []byte("data"), nil); err != nil {
			t.Fatalf("failed to append event: %v", err)
		}
	}

	events, err := store.GetRange(ctx, now.Add(-1*time.Hour), now.Add(1*time.Hour))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}

	events, err = store.GetRange(ctx, now.Add(-2*time.Hour), now.Add(-1*time.Hour))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events in the past, got %d", len(events))
	}
}

func TestEventStoreMultipleBuilds(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	_ = store.Append(ctx, "build-1", "Event1", []byte("data1"), nil)
	_ = store.Append(ctx, "build-2", "Event2", []byte("data2"), nil)
	_ = store.Append(ctx, "build-1", "Event3", []byte("data3"), nil)

	events, err := store.GetByBuildID(ctx, "build-1")
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events for build-1, got %d", len(events))
	}

	refs, err := store.ListBuilds(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list builds: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 builds, got %d", len(refs))
	}
	if refs[0].BuildID != "build-2" || refs[1].BuildID != "build-1" {
		t.Errorf("expected newest build first, got %v", refs)
	}
	if refs[1].EventCount != 2 {
		t.Errorf("expected 2 events for build-1, got %d", refs[1].EventCount)
	}
}

func TestEventStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Append(t.Context(), testBuildID, "Event", nil, nil); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	events, err := reopened.GetByBuildID(t.Context(), testBuildID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 persisted event, got %d", len(events))
	}
}
