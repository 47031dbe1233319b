package bbolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/match/domain"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage"
	"go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSession(t *testing.T) domain.Session {
	t.Helper()
	seats := []domain.SeatInput{
		{Name: "Ada", Commander: "Atraxa, Praetors' Voice", ColorIdentity: []string{"W", "U", "B", "G"}, Bracket: "3"},
		{Name: "Bram", Commander: "Krenko, Mob Boss", ColorIdentity: []string{"R"}, Bracket: "2"},
		{Name: "Cleo", Commander: "Meren of Clan Nel Toth", ColorIdentity: []string{"B", "G"}, Bracket: "3"},
	}
	session, err := domain.NewSession("001-A01", "group-1", seats, true)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func TestSnapshotSaveLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	session := testSession(t)
	session, err := domain.StartLive(session)
	if err != nil {
		t.Fatalf("start live: %v", err)
	}
	session, err = domain.AdjustLife(session, 1, -7)
	if err != nil {
		t.Fatalf("adjust life: %v", err)
	}

	if err := store.SaveSnapshot(ctx, session); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	loaded, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if loaded.ID != session.ID {
		t.Fatalf("expected id %q, got %q", session.ID, loaded.ID)
	}
	if loaded.Phase != domain.PhaseLive {
		t.Fatalf("expected live phase, got %s", loaded.Phase)
	}
	if got := loaded.Players[1].Life; got != 33 {
		t.Fatalf("expected seat 1 life 33, got %d", got)
	}
	if loaded.Players[0].Commander != session.Players[0].Commander {
		t.Fatalf("expected commander %q, got %q", session.Players[0].Commander, loaded.Players[0].Commander)
	}
}

func TestSnapshotSlotIsSingle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := testSession(t)
	if err := store.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := testSession(t)
	second.ID = "001-A02"
	if err := store.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	loaded, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if loaded.ID != "001-A02" {
		t.Fatalf("expected the newer session to win the slot, got %q", loaded.ID)
	}
}

func TestLoadSnapshotEmpty(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.LoadSnapshot(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClearSnapshot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveSnapshot(ctx, testSession(t)); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := store.ClearSnapshot(ctx); err != nil {
		t.Fatalf("clear snapshot: %v", err)
	}
	if _, err := store.LoadSnapshot(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}

	// Clearing again is a no-op, not an error.
	if err := store.ClearSnapshot(ctx); err != nil {
		t.Fatalf("clear empty slot: %v", err)
	}
}

func TestLoadSnapshotCorruptPayload(t *testing.T) {
	store := openTestStore(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(snapshotBucket)).Put([]byte(snapshotKey), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("write corrupt payload: %v", err)
	}

	if _, err := store.LoadSnapshot(context.Background()); err == nil {
		t.Fatal("expected an unmarshal error for a corrupt snapshot")
	} else if errors.Is(err, storage.ErrNotFound) {
		t.Fatal("corruption must be distinguishable from absence")
	}
}

func TestTrackingPutGetDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := storage.TrackingRecord{
		GroupID: "group-1",
		GameID:  "001-A01",
		Players: []storage.TrackingPlayer{
			{Name: "Ada", Commander: "Atraxa, Praetors' Voice", RowNumber: 12},
			{Name: "Bram", Commander: "Krenko, Mob Boss", RowNumber: 13},
		},
		CreatedAt: time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC),
	}

	if err := store.PutTracking(ctx, record); err != nil {
		t.Fatalf("put tracking: %v", err)
	}

	loaded, err := store.GetTracking(ctx, "group-1", "001-A01")
	if err != nil {
		t.Fatalf("get tracking: %v", err)
	}
	if len(loaded.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(loaded.Players))
	}
	if loaded.Players[1].RowNumber != 13 {
		t.Fatalf("expected row number 13, got %d", loaded.Players[1].RowNumber)
	}

	if err := store.DeleteTracking(ctx, "group-1", "001-A01"); err != nil {
		t.Fatalf("delete tracking: %v", err)
	}
	if _, err := store.GetTracking(ctx, "group-1", "001-A01"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTrackingValidation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutTracking(ctx, storage.TrackingRecord{GameID: "001-A01"}); err == nil {
		t.Fatal("expected error for missing group id")
	}
	if err := store.PutTracking(ctx, storage.TrackingRecord{GroupID: "group-1"}); err == nil {
		t.Fatal("expected error for missing game id")
	}
}
