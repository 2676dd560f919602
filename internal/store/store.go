// Package store implements the hybrid persistence layer: a
// session-oblivious facade over a device-local guest tier and an
// account-scoped remote tier, plus the one-time guest-to-account
// migration that runs when a guest signs in.
package store

import (
	"context"
	"errors"

	"hydrahunt/internal/resume"
)

// ErrNotFound reports that no record with the requested identifier
// exists in the authoritative backend.
var ErrNotFound = errors.New("resume not found")

// ErrMissingID reports a save attempt for a record without an identifier.
var ErrMissingID = errors.New("resume id is required")

// SaveStatus tells the caller where a record actually landed, so the UI
// can distinguish "saved to cloud" from "saved locally as a fallback".
type SaveStatus string

const (
	// SaveStatusCloud means the record was written to the remote store.
	SaveStatusCloud SaveStatus = "cloud"
	// SaveStatusLocal means the record was written to the local tier as
	// the authoritative backend (guest session).
	SaveStatusLocal SaveStatus = "local"
	// SaveStatusFallback means the remote write failed and the record
	// was kept in the local tier as a safety net.
	SaveStatusFallback SaveStatus = "local_fallback"
)

// LocalStore is the device tier: one serialized record collection per
// namespace key, rewritten whole on every mutation. Implementations
// must treat a malformed payload as an empty collection.
type LocalStore interface {
	List(ctx context.Context, key string) []resume.Record
	Upsert(ctx context.Context, key string, rec resume.Record) error
	Delete(ctx context.Context, key string, id string) error
	ReplaceAll(ctx context.Context, key string, records []resume.Record) error
	Clear(ctx context.Context, key string) error
}

// RemoteStore is the account tier: a record-oriented network store with
// per-account filtered list, upsert-by-identifier and delete. Access
// control is by the account scope; callers never see other accounts'
// rows.
type RemoteStore interface {
	ListByAccount(ctx context.Context, userID uint) ([]resume.Record, error)
	Upsert(ctx context.Context, userID uint, rec resume.Record) error
	Delete(ctx context.Context, userID uint, id string) error
}
