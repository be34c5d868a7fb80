package storage

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"tamboon/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "tamboon.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testSubmission(name, date string, satang int64) core.NewDonation {
	d, _ := core.ParseDate(date)
	return core.NewDonation{
		FullName: name,
		Amount:   core.Money{Satang: satang},
		Date:     d,
		Slip:     core.SlipUpload{Base64: "aGVsbG8=", MIMEType: "image/jpeg", Name: "slip.jpg"},
	}
}

func TestAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Append(ctx, testSubmission("Somchai J.", "2024-01-01", 10000))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected assigned ID")
	}
	if first.SlipURL != "" {
		t.Fatalf("expected empty slip URL before sync, got %q", first.SlipURL)
	}

	if _, err := repo.Append(ctx, testSubmission("Suda K.", "2024-02-15", 25050)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	donations, err := repo.ListDonations(ctx)
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(donations) != 2 {
		t.Fatalf("expected 2 donations, got %d", len(donations))
	}
	if donations[0].FullName != "Suda K." {
		t.Fatalf("expected newest date first, got %q", donations[0].FullName)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	bad := testSubmission("Somchai J.", "2024-01-01", 10000)
	bad.Slip.Base64 = ""
	if _, err := repo.Append(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	saved, err := repo.Append(ctx, testSubmission("Somchai J.", "2024-01-01", 10000))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	pending, err := repo.GetPendingSyncDonations(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncDonations: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending donation, got %d", len(pending))
	}
	if pending[0].Version != 1 {
		t.Fatalf("expected version 1, got %d", pending[0].Version)
	}

	if err := repo.MarkSynced(ctx, pending[0].ID, "https://drive.example/slip"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	pending, err = repo.GetPendingSyncDonations(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncDonations: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending donations after sync, got %d", len(pending))
	}

	id, err := strconv.ParseInt(saved.ID, 10, 64)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	row, err := repo.GetDonation(ctx, id)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if row.SlipURL != "https://drive.example/slip" {
		t.Fatalf("expected slip URL recorded, got %q", row.SlipURL)
	}
	if row.SlipBase64 != "" {
		t.Fatalf("expected slip payload dropped after sync")
	}
	if row.SyncStatus != "synced" {
		t.Fatalf("expected synced status, got %q", row.SyncStatus)
	}
}

func TestMarkSyncError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Append(ctx, testSubmission("Somchai J.", "2024-01-01", 10000)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := repo.MarkSyncError(ctx, 1); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}

	pending, err := repo.GetPendingSyncDonations(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncDonations: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("errored donations must not be re-queued, got %d", len(pending))
	}

	row, err := repo.GetDonation(ctx, 1)
	if err != nil {
		t.Fatalf("GetDonation: %v", err)
	}
	if row.SyncStatus != "error" {
		t.Fatalf("expected error status, got %q", row.SyncStatus)
	}
}
