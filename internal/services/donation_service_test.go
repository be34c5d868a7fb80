package services

import (
	"context"
	"path/filepath"
	"testing"

	"tamboon/internal/core"
	"tamboon/internal/storage"
)

func newTestService(t *testing.T) *DonationService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "tamboon.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	svc := NewDonationService(repo, nil)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestAppendWithoutBroker(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	date, _ := core.ParseDate("2024-01-01")
	saved, err := svc.Append(ctx, core.NewDonation{
		FullName: "Somchai J.",
		Amount:   core.Money{Satang: 10000},
		Date:     date,
		Slip:     core.SlipUpload{Base64: "aGVsbG8=", MIMEType: "image/jpeg", Name: "slip.jpg"},
	})
	if err != nil {
		t.Fatalf("Append without broker should still save locally: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected assigned ID")
	}

	donations, err := svc.ListDonations(ctx)
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(donations) != 1 {
		t.Fatalf("expected 1 donation, got %d", len(donations))
	}
}

func TestCloseNilComponents(t *testing.T) {
	svc := &DonationService{}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close should not fail with nil components: %v", err)
	}
}
