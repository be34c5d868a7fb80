// Package scanning extracts the transfer amount and date from bank
// transfer slip images using a vision model.
package scanning

import (
	"context"
	"errors"
)

// ErrExtraction marks a failed scan: the remote call errored, timed out,
// or returned something that is not the expected JSON. Callers fall back
// to manual entry.
var ErrExtraction = errors.New("slip extraction failed")

// SlipData holds whatever could be read off the slip. A nil field means
// the model could not determine that value; it is never zero or "".
type SlipData struct {
	Amount *float64 `json:"amount"`
	Date   *string  `json:"date"` // YYYY-MM-DD
}

// Scanner reads transfer details from a slip image.
type Scanner interface {
	// ScanSlip analyzes the image bytes and extracts amount and date.
	ScanSlip(ctx context.Context, image []byte, mimeType string) (*SlipData, error)
	// Close releases the underlying client.
	Close() error
}
