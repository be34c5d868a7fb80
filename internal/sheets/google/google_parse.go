package google

import (
	"strconv"
	"strings"

	"tamboon/internal/core"
)

// Sheet columns, in order: ID, Full Name, Amount, Donation Date,
// Wants Tax Deduction, National ID, Slip URL.
const (
	colID = iota
	colFullName
	colAmount
	colDate
	colTaxDeduction
	colNationalID
	colSlipURL
	colCount
)

// donationRow renders a record as a sheet row.
func donationRow(d core.Donation) []any {
	return []any{
		d.ID,
		d.FullName,
		d.Amount.DecimalString(),
		d.Date.String(),
		strconv.FormatBool(d.TaxDeduction),
		d.NationalID,
		d.SlipURL,
	}
}

// parseDonationRow converts a sheet row into a record. Rows with a
// missing ID, unparseable amount, or unparseable date are skipped;
// listing is best-effort like the rest of our sheet scans.
func parseDonationRow(cols []string) (core.Donation, bool) {
	if len(cols) < colSlipURL {
		return core.Donation{}, false
	}
	id := cols[colID]
	if id == "" {
		return core.Donation{}, false
	}

	satang, ok := parseBahtToSatang(cols[colAmount])
	if !ok {
		return core.Donation{}, false
	}

	date, err := core.ParseDate(cols[colDate])
	if err != nil {
		return core.Donation{}, false
	}

	d := core.Donation{
		ID:           id,
		FullName:     cols[colFullName],
		Amount:       core.Money{Satang: satang},
		Date:         date,
		TaxDeduction: parseBool(cols[colTaxDeduction]),
		NationalID:   cols[colNationalID],
	}
	if len(cols) > colSlipURL {
		d.SlipURL = cols[colSlipURL]
	}
	return d, true
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func parseBahtToSatang(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Normalize decimal comma and strip thousands separators the sheet
	// may have introduced via number formatting.
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	satang := int64((f * 100.0) + 0.5)
	return satang, true
}
