package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diewo77/studio-billing/internal/models"
	"github.com/diewo77/studio-billing/internal/store"
)

var (
	// ErrNoInvoice means nothing was handed off in this session.
	ErrNoInvoice = errors.New("render: no invoice handed off")
	// ErrCorruptInvoice means the hand-off entry did not decode; it has been removed.
	ErrCorruptInvoice = errors.New("render: hand-off record is unreadable")
)

// LoadHandoff reads the record written by the builder on submit or quote.
// The entry is left in place so the page can be reloaded.
func LoadHandoff(ctx context.Context, st store.Store) (*models.Invoice, error) {
	raw, ok, err := st.Get(ctx, store.HandoffKey)
	if err != nil {
		return nil, fmt.Errorf("read hand-off: %w", err)
	}
	if !ok {
		return nil, ErrNoInvoice
	}
	inv, err := DecodeInvoice([]byte(raw))
	if err != nil {
		if rmErr := st.Remove(ctx, store.HandoffKey); rmErr != nil {
			return nil, fmt.Errorf("remove corrupt hand-off: %w", rmErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptInvoice, err)
	}
	return inv, nil
}

// DecodeInvoice parses a JSON invoice record. A literal null is rejected.
func DecodeInvoice(b []byte) (*models.Invoice, error) {
	var inv *models.Invoice
	if err := json.Unmarshal(b, &inv); err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errors.New("record is null")
	}
	return inv, nil
}
