package google

import (
	"testing"

	"tamboon/internal/core"
)

func TestParseDonationRow(t *testing.T) {
	d, ok := parseDonationRow([]string{"don_1", "A B", "1,234.50", "2024-05-01", "TRUE", "1234567890123", "https://drive/x"})
	if !ok {
		t.Fatalf("expected row to parse")
	}
	if d.ID != "don_1" || d.FullName != "A B" || d.Amount.Satang != 123450 {
		t.Fatalf("unexpected record: %+v", d)
	}
	if d.Date.String() != "2024-05-01" || !d.TaxDeduction || d.SlipURL != "https://drive/x" {
		t.Fatalf("unexpected record: %+v", d)
	}
}

func TestParseDonationRowSkipsBadRows(t *testing.T) {
	bads := [][]string{
		{},
		{"", "A", "100", "2024-01-01", "false", ""},       // missing id
		{"don_1", "A", "abc", "2024-01-01", "false", ""},  // bad amount
		{"don_1", "A", "100", "yesterday", "false", ""},   // bad date
		{"don_1", "A", "100"},                             // short row
	}
	for i, cols := range bads {
		if _, ok := parseDonationRow(cols); ok {
			t.Fatalf("case %d expected skip", i)
		}
	}
}

func TestParseDonationRowWithoutSlipURL(t *testing.T) {
	d, ok := parseDonationRow([]string{"don_2", "B", "50", "2024-01-02", "false", ""})
	if !ok || d.SlipURL != "" {
		t.Fatalf("expected parse with empty slip url, got ok=%v d=%+v", ok, d)
	}
}

func TestDonationRowRoundTrip(t *testing.T) {
	date, err := core.ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	orig := core.Donation{
		ID:           "don_abc",
		FullName:     "สมชาย ใจดี",
		Amount:       core.Money{Satang: 123450},
		Date:         date,
		TaxDeduction: true,
		NationalID:   "1234567890123",
		SlipURL:      "https://drive/x",
	}
	row := donationRow(orig)
	cols := make([]string, len(row))
	for i, v := range row {
		cols[i] = v.(string)
	}
	got, ok := parseDonationRow(cols)
	if !ok {
		t.Fatalf("expected round trip to parse")
	}
	if got != orig {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}
