package export

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tamboon/internal/core"
)

func TestDonationsCSVQuotingAndOrder(t *testing.T) {
	date, _ := core.ParseDate("2024-01-01")
	list := []core.Donation{{
		ID:           "1",
		FullName:     "A,B",
		Amount:       core.Money{Satang: 10000},
		Date:         date,
		TaxDeduction: false,
		NationalID:   "",
		SlipURL:      "u",
	}}

	got, err := DonationsCSV(list)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != CSVHeader {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != `1,"A,B",100,2024-01-01,false,,u` {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestDonationsCSVDoublesInternalQuotes(t *testing.T) {
	date, _ := core.ParseDate("2024-01-01")
	list := []core.Donation{{
		ID:       "2",
		FullName: `John "JJ" Doe`,
		Amount:   core.Money{Satang: 5050},
		Date:     date,
		SlipURL:  "u",
	}}
	got, err := DonationsCSV(list)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !strings.Contains(got, `"John ""JJ"" Doe"`) {
		t.Fatalf("quotes not doubled: %q", got)
	}
}

func TestDonationsCSVKeepsListOrder(t *testing.T) {
	early, _ := core.ParseDate("2023-01-01")
	late, _ := core.ParseDate("2024-01-01")
	list := []core.Donation{
		{ID: "old", FullName: "a", Amount: core.Money{Satang: 1}, Date: early, SlipURL: "u"},
		{ID: "new", FullName: "b", Amount: core.Money{Satang: 1}, Date: late, SlipURL: "u"},
	}
	got, err := DonationsCSV(list)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	lines := strings.Split(got, "\n")
	// Rows come out in given order, not re-sorted by date.
	if !strings.HasPrefix(lines[1], "old,") || !strings.HasPrefix(lines[2], "new,") {
		t.Fatalf("rows re-ordered: %v", lines[1:])
	}
}

func TestDonationsCSVEmptyList(t *testing.T) {
	if _, err := DonationsCSV(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if got := FileName(now); got != "donations_export_2024-05-01.csv" {
		t.Fatalf("unexpected name: %q", got)
	}
}
