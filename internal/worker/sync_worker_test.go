package worker

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"tamboon/internal/amqp"
	"tamboon/internal/core"
	"tamboon/internal/sheets/memory"
	"tamboon/internal/storage"
)

func newTestWorker(t *testing.T) (*SyncWorker, *storage.SQLiteRepository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "tamboon.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	store := memory.New()
	return NewSyncWorker(repo, store, 10), repo, store
}

func seedDonation(t *testing.T, repo *storage.SQLiteRepository, name string) int64 {
	t.Helper()
	date, _ := core.ParseDate("2024-01-01")
	saved, err := repo.Append(context.Background(), core.NewDonation{
		FullName: name,
		Amount:   core.Money{Satang: 10000},
		Date:     date,
		Slip:     core.SlipUpload{Base64: "aGVsbG8=", MIMEType: "image/jpeg", Name: "slip.jpg"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	id, err := strconv.ParseInt(saved.ID, 10, 64)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	return id
}

func TestHandleSyncMessage(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()

	id := seedDonation(t, repo, "Somchai J.")

	if err := w.HandleSyncMessage(ctx, amqp.NewDonationSyncMessage(id, 1)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	synced, err := store.ListDonations(ctx)
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(synced) != 1 {
		t.Fatalf("expected donation pushed to sheets, got %d", len(synced))
	}

	row, err := repo.GetDonation(ctx, id)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if row.SyncStatus != "synced" {
		t.Fatalf("expected synced status, got %q", row.SyncStatus)
	}
	if row.SlipURL == "" {
		t.Fatal("expected slip URL recorded from sheets append")
	}
	if row.SlipBase64 != "" {
		t.Fatal("expected slip payload dropped after sync")
	}
}

func TestHandleSyncMessageAlreadySynced(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()

	id := seedDonation(t, repo, "Somchai J.")
	msg := amqp.NewDonationSyncMessage(id, 1)

	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	// Redelivered message must not create a duplicate row
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage redelivery: %v", err)
	}

	synced, _ := store.ListDonations(ctx)
	if len(synced) != 1 {
		t.Fatalf("expected 1 synced donation, got %d", len(synced))
	}
}

func TestHandleSyncMessageMissingDonation(t *testing.T) {
	w, _, _ := newTestWorker(t)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewDonationSyncMessage(999, 1)); err == nil {
		t.Fatal("expected error for missing donation")
	}
}

func TestStartupSyncCheck(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()

	seedDonation(t, repo, "Somchai J.")
	seedDonation(t, repo, "Suda K.")

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}

	synced, _ := store.ListDonations(ctx)
	if len(synced) != 2 {
		t.Fatalf("expected 2 synced donations, got %d", len(synced))
	}

	pending, err := repo.GetPendingSyncDonations(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncDonations: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending donations, got %d", len(pending))
	}
}

func TestProcessPendingDonationsEmpty(t *testing.T) {
	w, _, _ := newTestWorker(t)

	if err := w.ProcessPendingDonations(context.Background()); err != nil {
		t.Fatalf("ProcessPendingDonations on empty table: %v", err)
	}
}
