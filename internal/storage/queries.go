package storage

import (
	"context"
	"database/sql"
	"time"
)

// Donation is the database row shape, including the slip payload kept
// locally until the sync worker uploads it to Drive.
type Donation struct {
	ID           int64
	FullName     string
	AmountSatang int64
	DonationDate string
	TaxDeduction bool
	NationalID   string
	SlipName     string
	SlipMime     string
	SlipBase64   string
	SlipURL      string
	SyncStatus   string
	Version      int64
	CreatedAt    time.Time
}

type CreateDonationParams struct {
	FullName     string
	AmountSatang int64
	DonationDate string
	TaxDeduction bool
	NationalID   string
	SlipName     string
	SlipMime     string
	SlipBase64   string
}

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const donationColumns = `id, full_name, amount_satang, donation_date, tax_deduction,
	national_id, slip_name, slip_mime, slip_base64, slip_url, sync_status, version, created_at`

func scanDonation(row interface{ Scan(...any) error }) (Donation, error) {
	var d Donation
	err := row.Scan(
		&d.ID,
		&d.FullName,
		&d.AmountSatang,
		&d.DonationDate,
		&d.TaxDeduction,
		&d.NationalID,
		&d.SlipName,
		&d.SlipMime,
		&d.SlipBase64,
		&d.SlipURL,
		&d.SyncStatus,
		&d.Version,
		&d.CreatedAt,
	)
	return d, err
}

func (q *Queries) CreateDonation(ctx context.Context, arg CreateDonationParams) (Donation, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO donations (full_name, amount_satang, donation_date, tax_deduction,
			national_id, slip_name, slip_mime, slip_base64)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+donationColumns,
		arg.FullName,
		arg.AmountSatang,
		arg.DonationDate,
		arg.TaxDeduction,
		arg.NationalID,
		arg.SlipName,
		arg.SlipMime,
		arg.SlipBase64,
	)
	return scanDonation(row)
}

func (q *Queries) GetDonation(ctx context.Context, id int64) (Donation, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+donationColumns+`
		FROM donations
		WHERE id = ?`, id)
	return scanDonation(row)
}

// ListDonations returns all donations, newest donation date first. Ties on
// the date keep insertion order, newest row first.
func (q *Queries) ListDonations(ctx context.Context) ([]Donation, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+donationColumns+`
		FROM donations
		ORDER BY donation_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (q *Queries) GetPendingSyncDonations(ctx context.Context, limit int64) ([]Donation, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+donationColumns+`
		FROM donations
		WHERE sync_status = 'pending'
		ORDER BY id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// MarkDonationSynced records the Drive URL of the uploaded slip and drops
// the local base64 payload, which is no longer needed.
func (q *Queries) MarkDonationSynced(ctx context.Context, id int64, slipURL string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE donations
		SET sync_status = 'synced', slip_url = ?, slip_base64 = '', version = version + 1
		WHERE id = ?`, slipURL, id)
	return err
}

func (q *Queries) MarkDonationSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE donations
		SET sync_status = 'error', version = version + 1
		WHERE id = ?`, id)
	return err
}
