package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"controlling_led/internal/models"
	"controlling_led/internal/repository"
)

func TestInitDB_InMemoryRoundTrip(t *testing.T) {
	conn, err := InitDB("")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := repository.NewEventSQLite(conn)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, typ := range []string{models.EventStateChange, models.EventHardwareError, models.EventStateChange} {
		err := repo.Append(ctx, models.LedEvent{
			OccurredAt:  base.Add(time.Duration(i) * time.Minute),
			Type:        typ,
			Description: "event",
			Metadata:    map[string]any{"i": i},
		})
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	all, err := repo.List(ctx, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 events, got %d", len(all))
	}
	if !all[1].OccurredAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("timestamp round trip: got %v", all[1].OccurredAt)
	}

	changes, err := repo.List(ctx, base.Add(30*time.Second), time.Time{}, models.EventStateChange)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("want 1 filtered event, got %d: %+v", len(changes), changes)
	}
}

func TestInitDB_FileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	for i := 0; i < 2; i++ {
		conn, err := InitDB(path)
		if err != nil {
			t.Fatalf("InitDB #%d: %v", i+1, err)
		}
		_ = conn.Close()
	}
}
