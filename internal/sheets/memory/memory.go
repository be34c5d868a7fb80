package memory

import (
	"context"
	"fmt"
	"sync"

	"tamboon/internal/core"
)

// Store keeps donations in memory for development and tests.
type Store struct {
	mu    sync.Mutex
	items []core.Donation
}

func New(seed ...core.Donation) *Store {
	s := &Store{}
	s.items = append(s.items, seed...)
	return s
}

// Append stores the submission and prepends the canonical record. The
// list is not re-sorted here, matching the add path of the original
// frontend; a backdated record sits at the front until the next full list.
func (s *Store) Append(_ context.Context, n core.NewDonation) (core.Donation, error) {
	if err := n.Validate(); err != nil {
		return core.Donation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := core.Donation{
		ID:           fmt.Sprintf("mem:%d", len(s.items)+1),
		FullName:     n.FullName,
		Amount:       n.Amount,
		Date:         n.Date,
		TaxDeduction: n.TaxDeduction,
		NationalID:   n.NationalID,
		SlipURL:      "memory://slips/" + n.Slip.Name,
	}
	s.items = append([]core.Donation{d}, s.items...)
	return d, nil
}

// ListDonations returns a copy of the stored records sorted by donation
// date descending.
func (s *Store) ListDonations(_ context.Context) ([]core.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Donation(nil), s.items...)
	core.SortByDateDesc(out)
	return out, nil
}
