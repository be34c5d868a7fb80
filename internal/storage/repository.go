package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"tamboon/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements sheets.DonationAppender. The slip payload is stored
// alongside the record; the sync worker uploads it to Drive later, so
// SlipURL stays empty until then.
func (r *SQLiteRepository) Append(ctx context.Context, n core.NewDonation) (core.Donation, error) {
	if err := n.Validate(); err != nil {
		return core.Donation{}, err
	}

	row, err := r.queries.CreateDonation(ctx, CreateDonationParams{
		FullName:     n.FullName,
		AmountSatang: n.Amount.Satang,
		DonationDate: n.Date.String(),
		TaxDeduction: n.TaxDeduction,
		NationalID:   n.NationalID,
		SlipName:     n.Slip.Name,
		SlipMime:     n.Slip.MIMEType,
		SlipBase64:   n.Slip.Base64,
	})
	if err != nil {
		return core.Donation{}, fmt.Errorf("create donation: %w", err)
	}

	slog.InfoContext(ctx, "Donation saved to SQLite",
		"id", row.ID,
		"full_name", row.FullName,
		"amount_satang", row.AmountSatang,
		"date", row.DonationDate)

	return donationFromRow(row), nil
}

// ListDonations implements sheets.DonationLister.
func (r *SQLiteRepository) ListDonations(ctx context.Context) ([]core.Donation, error) {
	rows, err := r.queries.ListDonations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}

	donations := make([]core.Donation, 0, len(rows))
	for _, row := range rows {
		d, err := donationFromRowStrict(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable donation row", "id", row.ID, "error", err)
			continue
		}
		donations = append(donations, d)
	}
	return donations, nil
}

// GetPendingSyncDonations returns donations not yet pushed to Google,
// oldest first, for the sync queue.
func (r *SQLiteRepository) GetPendingSyncDonations(ctx context.Context, limit int) ([]PendingSyncDonation, error) {
	rows, err := r.queries.GetPendingSyncDonations(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync donations: %w", err)
	}

	pending := make([]PendingSyncDonation, len(rows))
	for i, row := range rows {
		pending[i] = PendingSyncDonation{
			ID:        row.ID,
			Version:   row.Version,
			CreatedAt: row.CreatedAt,
		}
	}
	return pending, nil
}

// GetDonation retrieves a single row by ID, slip payload included.
func (r *SQLiteRepository) GetDonation(ctx context.Context, id int64) (*Donation, error) {
	row, err := r.queries.GetDonation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get donation by id: %w", err)
	}
	return &row, nil
}

// MarkSynced marks a donation as successfully synced and records the
// uploaded slip URL.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64, slipURL string) error {
	if err := r.queries.MarkDonationSynced(ctx, id, slipURL); err != nil {
		return fmt.Errorf("mark donation synced: %w", err)
	}

	slog.InfoContext(ctx, "Donation marked as synced", "id", id, "slip_url", slipURL)
	return nil
}

// MarkSyncError marks a donation as having sync errors.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkDonationSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark donation sync error: %w", err)
	}

	slog.WarnContext(ctx, "Donation marked with sync error", "id", id)
	return nil
}

// PendingSyncDonation is the minimal data carried in sync queue messages.
type PendingSyncDonation struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// donationFromRow is for rows just written from a validated submission,
// where the stored date is known to parse.
func donationFromRow(row Donation) core.Donation {
	d, _ := donationFromRowStrict(row)
	return d
}

func donationFromRowStrict(row Donation) (core.Donation, error) {
	date, err := core.ParseDate(row.DonationDate)
	if err != nil {
		return core.Donation{}, fmt.Errorf("row %d: bad donation date %q", row.ID, row.DonationDate)
	}
	return core.Donation{
		ID:           strconv.FormatInt(row.ID, 10),
		FullName:     row.FullName,
		Amount:       core.Money{Satang: row.AmountSatang},
		Date:         date,
		TaxDeduction: row.TaxDeduction,
		NationalID:   row.NationalID,
		SlipURL:      row.SlipURL,
	}, nil
}
