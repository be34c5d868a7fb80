package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"tamboon/internal/amqp"
	"tamboon/internal/core"
	"tamboon/internal/storage"
)

// DonationService is the offline-first write path: donations land in
// SQLite immediately and a sync message asks the worker to push them to
// Google Sheets and Drive.
type DonationService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewDonationService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *DonationService {
	return &DonationService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Append saves a donation locally and publishes a sync message. A broker
// failure does not fail the request; the worker's startup check will pick
// the record up later.
func (s *DonationService) Append(ctx context.Context, n core.NewDonation) (core.Donation, error) {
	saved, err := s.storage.Append(ctx, n)
	if err != nil {
		return core.Donation{}, fmt.Errorf("save donation: %w", err)
	}

	id, err := strconv.ParseInt(saved.ID, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse donation ID", "id", saved.ID, "error", err)
		return saved, nil
	}

	if err := s.publishSyncMessage(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
	}

	return saved, nil
}

// ListDonations reads from the local database.
func (s *DonationService) ListDonations(ctx context.Context) ([]core.Donation, error) {
	return s.storage.ListDonations(ctx)
}

func (s *DonationService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishDonationSync(ctx, id, version)
}

// Close closes both storage and AMQP connections
func (s *DonationService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close donation service: %v", errs)
	}

	return nil
}
