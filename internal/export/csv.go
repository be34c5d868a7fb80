// Package export serializes donation lists for download.
package export

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"tamboon/internal/core"
)

// CSVHeader is the fixed first row of every export.
const CSVHeader = "ID,Full Name,Amount,Donation Date,Wants Tax Deduction,National ID,Slip URL"

// ErrNoData is returned for an empty list; the caller shows a notice
// instead of producing an empty file.
var ErrNoData = errors.New("no donations to export")

// DonationsCSV renders the list as CSV in the given order, one row per
// record. Only the full-name field is quoted, with internal quotes
// doubled; every other field is written as-is.
func DonationsCSV(donations []core.Donation) (string, error) {
	if len(donations) == 0 {
		return "", ErrNoData
	}

	var b strings.Builder
	b.WriteString(CSVHeader)
	for _, d := range donations {
		b.WriteByte('\n')
		b.WriteString(d.ID)
		b.WriteByte(',')
		b.WriteString(`"` + strings.ReplaceAll(d.FullName, `"`, `""`) + `"`)
		b.WriteByte(',')
		b.WriteString(d.Amount.DecimalString())
		b.WriteByte(',')
		b.WriteString(d.Date.String())
		b.WriteByte(',')
		b.WriteString(strconv.FormatBool(d.TaxDeduction))
		b.WriteByte(',')
		b.WriteString(d.NationalID)
		b.WriteByte(',')
		b.WriteString(d.SlipURL)
	}
	return b.String(), nil
}

// FileName returns the date-stamped download name for an export.
func FileName(now time.Time) string {
	return "donations_export_" + now.Format("2006-01-02") + ".csv"
}
