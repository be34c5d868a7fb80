package adapters

import (
	"context"

	"tamboon/internal/core"
	"tamboon/internal/services"
	"tamboon/internal/storage"
)

// SQLiteAdapter exposes the SQLite + AMQP stack through the sheets ports
// so the HTTP handlers work unchanged against the offline-first backend.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.DonationService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.DonationService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// Append implements sheets.DonationAppender
func (a *SQLiteAdapter) Append(ctx context.Context, n core.NewDonation) (core.Donation, error) {
	return a.service.Append(ctx, n)
}

// ListDonations implements sheets.DonationLister
func (a *SQLiteAdapter) ListDonations(ctx context.Context) ([]core.Donation, error) {
	return a.storage.ListDonations(ctx)
}
