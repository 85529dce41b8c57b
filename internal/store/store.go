// Package store provides the session-scoped key-value stores used to pass the
// invoice from the builder to the renderer and to autosave builder drafts.
package store

import (
	"context"
	"errors"
)

// Well-known keys inside one session.
const (
	HandoffKey = "current_invoice"
	DraftKey   = "billing_draft"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store: closed")

// Store is an opaque string key-value store.
type Store interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

type scoped struct {
	base   Store
	prefix string
}

// Scoped returns a view of base whose keys live under the given session id.
func Scoped(base Store, sessionID string) Store {
	return &scoped{base: base, prefix: "session:" + sessionID + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.base.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.base.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Remove(ctx context.Context, key string) error {
	return s.base.Remove(ctx, s.prefix+key)
}
