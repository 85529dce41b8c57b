package builder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/models"
	"github.com/diewo77/studio-billing/internal/store"
	"go.uber.org/zap"
)

// Destinations the client is sent to after a hand-off.
const (
	DestinationInvoice = "/print"
	DestinationQuote   = "/quote"
)

// Workspace ties a Builder to one session's store: it restores the draft
// snapshot on mount and mirrors every later transition back into it.
type Workspace struct {
	*Builder
	st        store.Store
	log       *zap.Logger
	restoring bool
	restored  bool
}

// NewWorkspace returns an unmounted workspace holding an empty record.
func NewWorkspace(cat *catalog.Catalog, st store.Store, log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workspace{Builder: New(cat), st: st, log: log}
}

// Restored reports whether Mount found a saved draft.
func (w *Workspace) Restored() bool { return w.restored }

// Mount loads the draft snapshot if one exists. A snapshot that does not parse
// is removed and the empty record is kept. No snapshot is written while mounting.
func (w *Workspace) Mount(ctx context.Context) error {
	w.restoring = true
	defer func() { w.restoring = false }()

	raw, ok, err := w.st.Get(ctx, store.DraftKey)
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return nil
	}
	var d models.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil || d.Invoice == nil {
		w.log.Warn("discarding unreadable draft snapshot", zap.Error(err))
		if rmErr := w.st.Remove(ctx, store.DraftKey); rmErr != nil {
			return fmt.Errorf("remove corrupt draft: %w", rmErr)
		}
		return nil
	}
	w.restored = true
	return w.Apply(ctx, func(b *Builder) { b.Restore(d) })
}

// Apply runs one transition and mirrors the resulting state.
func (w *Workspace) Apply(ctx context.Context, fn func(b *Builder)) error {
	fn(w.Builder)
	return w.persist(ctx)
}

// Save writes the current state as the draft snapshot.
func (w *Workspace) Save(ctx context.Context) error { return w.persist(ctx) }

func (w *Workspace) persist(ctx context.Context) error {
	if w.restoring {
		return nil
	}
	b, err := json.Marshal(w.Draft())
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := w.st.Set(ctx, store.DraftKey, string(b)); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Submit hands the record to the invoice renderer and returns where to go next.
func (w *Workspace) Submit(ctx context.Context) (string, error) {
	if err := w.handoff(ctx); err != nil {
		return "", err
	}
	return DestinationInvoice, nil
}

// CreateQuote hands the record to the quotation renderer.
func (w *Workspace) CreateQuote(ctx context.Context) (string, error) {
	if err := w.handoff(ctx); err != nil {
		return "", err
	}
	return DestinationQuote, nil
}

func (w *Workspace) handoff(ctx context.Context) error {
	b, err := json.Marshal(w.Invoice())
	if err != nil {
		return fmt.Errorf("encode invoice: %w", err)
	}
	if err := w.st.Set(ctx, store.HandoffKey, string(b)); err != nil {
		return fmt.Errorf("write hand-off: %w", err)
	}
	return nil
}

// Clear resets the form and forgets the saved draft. The caller is expected
// to have obtained the user's confirmation.
func (w *Workspace) Clear(ctx context.Context) error {
	w.Reset()
	w.restored = false
	if err := w.st.Remove(ctx, store.DraftKey); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
