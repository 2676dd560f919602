package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydrahunt/internal/resume"
)

func TestMigrateGuestRecords(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := context.Background()
	guestKey := Session{DeviceID: "device-1"}.LocalKey()

	stamp := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	guestRecords := make([]resume.Record, 3)
	for i := range guestRecords {
		rec := resume.New("Drafts")
		rec.UpdatedAt = stamp.Add(time.Duration(i) * time.Hour)
		guestRecords[i] = rec
	}
	require.NoError(t, fx.local.ReplaceAll(ctx, guestKey, guestRecords))

	result := fx.facade.MigrateGuestRecords(ctx, "device-1", 7)
	assert.Equal(t, 3, result.Migrated)
	assert.Zero(t, result.Failed)

	// IDs and timestamps travel untouched; migration is not an edit.
	for _, rec := range guestRecords {
		moved, ok := fx.remote.records[7][rec.ID]
		require.True(t, ok, "record %s not migrated", rec.ID)
		assert.Equal(t, rec.UpdatedAt, moved.UpdatedAt)
		assert.Equal(t, rec.Title, moved.Title)
	}

	assert.Empty(t, fx.local.List(ctx, guestKey))
}

func TestMigrateGuestRecordsEmptyScopeIsNoOp(t *testing.T) {
	fx := newFacadeFixture(t)

	result := fx.facade.MigrateGuestRecords(context.Background(), "device-1", 7)
	assert.Zero(t, result.Migrated)
	assert.Zero(t, result.Failed)
	assert.Zero(t, fx.remote.upserts)
}

func TestMigrateGuestRecordsIsIdempotent(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := context.Background()
	guestKey := Session{DeviceID: "device-1"}.LocalKey()

	require.NoError(t, fx.local.Upsert(ctx, guestKey, resume.New("")))

	first := fx.facade.MigrateGuestRecords(ctx, "device-1", 7)
	assert.Equal(t, 1, first.Migrated)

	second := fx.facade.MigrateGuestRecords(ctx, "device-1", 7)
	assert.Zero(t, second.Migrated)
	assert.Equal(t, 1, fx.remote.upserts)
}

func TestMigrateGuestRecordsContinuesPastFailures(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := context.Background()
	guestKey := Session{DeviceID: "device-1"}.LocalKey()

	good := resume.New("")
	bad := resume.New("")
	require.NoError(t, fx.local.ReplaceAll(ctx, guestKey, []resume.Record{bad, good}))
	fx.remote.failIDs = map[string]bool{bad.ID: true}

	result := fx.facade.MigrateGuestRecords(ctx, "device-1", 7)
	assert.Equal(t, 1, result.Migrated)
	assert.Equal(t, 1, result.Failed)

	_, ok := fx.remote.records[7][good.ID]
	assert.True(t, ok)

	// The guest collection is cleared even after a partial failure.
	assert.Empty(t, fx.local.List(ctx, guestKey))
}

func TestMigrateGuestRecordsDoesNotTouchOtherDevices(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := context.Background()

	otherKey := Session{DeviceID: "device-2"}.LocalKey()
	require.NoError(t, fx.local.Upsert(ctx, otherKey, resume.New("")))
	require.NoError(t, fx.local.Upsert(ctx, Session{DeviceID: "device-1"}.LocalKey(), resume.New("")))

	result := fx.facade.MigrateGuestRecords(ctx, "device-1", 7)
	assert.Equal(t, 1, result.Migrated)
	assert.Len(t, fx.local.List(ctx, otherKey), 1)
}
