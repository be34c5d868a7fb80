package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tamboon/internal/amqp"
	"tamboon/internal/core"
	"tamboon/internal/sheets"
	"tamboon/internal/storage"
)

// SyncWorker pushes locally stored donations to Google Sheets and Drive.
// The slip payload travels with the row in SQLite, so the worker can
// upload it even when the original request happened offline.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.DonationAppender
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets sheets.DonationAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single donation sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.DonationSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	return w.syncDonation(ctx, msg.ID)
}

// ProcessPendingDonations syncs donations that are still pending. This is
// a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingDonations(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncDonations(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending donations: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending donations", "count", len(pending))

	for _, p := range pending {
		if err := w.syncDonation(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync donation", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck syncs any donations left pending while the worker was
// down or messages were missed.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Larger batch for the startup pass
	pending, err := w.storage.GetPendingSyncDonations(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending donations for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending donations found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending donations on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.syncDonation(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync donation during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncDonation(ctx context.Context, id int64) error {
	row, err := w.storage.GetDonation(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get donation from storage: %w", err)
	}

	if row.SyncStatus == "synced" {
		slog.InfoContext(ctx, "Donation already synced, skipping", "id", id)
		return nil
	}

	date, err := core.ParseDate(row.DonationDate)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("parse stored donation date %q: %w", row.DonationDate, err)
	}

	submission := core.NewDonation{
		FullName:     row.FullName,
		Amount:       core.Money{Satang: row.AmountSatang},
		Date:         date,
		TaxDeduction: row.TaxDeduction,
		NationalID:   row.NationalID,
		Slip: core.SlipUpload{
			Base64:   row.SlipBase64,
			MIMEType: row.SlipMime,
			Name:     row.SlipName,
		},
	}

	synced, err := w.sheets.Append(ctx, submission)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id, synced.SlipURL); err != nil {
		// The sync itself worked; the next startup pass will retry the mark
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced donation",
		"id", id,
		"sheets_ref", synced.ID,
		"slip_url", synced.SlipURL,
		"amount_satang", row.AmountSatang)

	return nil
}
