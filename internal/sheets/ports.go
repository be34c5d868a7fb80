package sheets

import (
	"context"
	"errors"

	"tamboon/internal/core"
)

// Failure kinds surfaced to the UI. Backends wrap the underlying
// network/server message around these so handlers can pick the banner.
var (
	ErrFetch = errors.New("donation list fetch failed")
	ErrAdd   = errors.New("donation add failed")
)

// Ports for outbound adapters.
type (
	// DonationAppender persists a submission and returns the canonical
	// record with its assigned ID and stored slip URL.
	DonationAppender interface {
		Append(ctx context.Context, n core.NewDonation) (core.Donation, error)
	}

	// DonationLister returns all donation records, newest date first.
	DonationLister interface {
		ListDonations(ctx context.Context) ([]core.Donation, error)
	}
)
