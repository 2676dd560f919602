package store

import (
	"context"
	"log/slog"

	"hydrahunt/internal/metrics"
)

// MigrationResult summarizes one guest-to-account migration run.
type MigrationResult struct {
	Migrated int
	Failed   int
}

// MigrateGuestRecords moves every record in the device's guest
// collection into the remote store under the newly authenticated
// account, then clears the guest collection. It is invoked once per
// sign-in transition; calling it again after the clear is a no-op.
//
// The batch is best-effort, not a transaction: a record whose remote
// upsert fails is logged and skipped, and the guest collection is
// cleared regardless, which is the documented (and accepted) way a
// partially-failed migration can drop records. Identifiers and
// last-modified timestamps are carried over untouched; migration is
// not a modification.
func (f *Facade) MigrateGuestRecords(ctx context.Context, deviceID string, userID uint) MigrationResult {
	guestKey := Session{DeviceID: deviceID}.LocalKey()
	records := f.local.List(ctx, guestKey)
	if len(records) == 0 {
		return MigrationResult{}
	}

	log := f.logger.With(
		slog.Uint64("user_id", uint64(userID)),
		slog.Int("guest_records", len(records)),
	)
	log.Info("migrating guest records to account")

	var result MigrationResult
	for _, rec := range records {
		if err := f.remote.Upsert(ctx, userID, rec); err != nil {
			log.Error("guest record migration failed, continuing",
				slog.String("resume_id", rec.ID), slog.Any("error", err))
			metrics.MigratedRecord("failed")
			result.Failed++
			continue
		}
		metrics.MigratedRecord("ok")
		result.Migrated++
	}

	if err := f.local.Clear(ctx, guestKey); err != nil {
		log.Error("clear guest collection failed", slog.Any("error", err))
	}

	log.Info("guest migration finished",
		slog.Int("migrated", result.Migrated),
		slog.Int("failed", result.Failed),
	)
	return result
}
