package store

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"hydrahunt/internal/metrics"
	"hydrahunt/internal/resume"
)

// Facade is the single persistence API the rest of the application
// talks to. It routes every call to the backend the current session
// makes authoritative, and absorbs backend failures: reads degrade to
// the local tier, failed remote writes land in the local tier as a
// safety net, and nothing below this boundary surfaces as a panic or
// an unhandled error to UI-facing callers.
type Facade struct {
	sessions Resolver
	local    LocalStore
	remote   RemoteStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewFacade wires the facade with explicit dependencies.
func NewFacade(sessions Resolver, local LocalStore, remote RemoteStore, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		sessions: sessions,
		local:    local,
		remote:   remote,
		logger:   logger,
		now:      time.Now,
	}
}

// ListResumes returns the current scope's records, newest first.
// Authenticated sessions read the remote store; if that fails the call
// degrades to whatever the local tier holds instead of failing the
// caller. A guest with no records gets the seeded example.
func (f *Facade) ListResumes(ctx context.Context) []resume.Record {
	sess := f.sessions.Resolve(ctx)

	if sess.Authenticated() {
		records, err := f.remote.ListByAccount(ctx, sess.UserID)
		if err != nil {
			f.logger.Warn("remote list failed, serving local fallback",
				slog.Uint64("user_id", uint64(sess.UserID)), slog.Any("error", err))
			metrics.RemoteFallback("list")
			return sortByUpdatedDesc(f.local.List(ctx, sess.LocalKey()))
		}
		return records
	}

	records := f.local.List(ctx, sess.LocalKey())
	if len(records) == 0 {
		return []resume.Record{resume.Seed()}
	}
	return sortByUpdatedDesc(records)
}

// GetResume looks a record up by id in the current scope.
func (f *Facade) GetResume(ctx context.Context, id string) (resume.Record, error) {
	// Linear scan by contract: collections are personal-sized, no
	// secondary index is warranted.
	for _, r := range f.ListResumes(ctx) {
		if r.ID == id {
			return r, nil
		}
	}
	return resume.Record{}, ErrNotFound
}

// ListFolders projects the current records onto their folder labels,
// sorted lexicographically. Always recomputed, never cached.
func (f *Facade) ListFolders(ctx context.Context) []string {
	seen := map[string]struct{}{}
	for _, r := range f.ListResumes(ctx) {
		folder := r.Folder
		if folder == "" {
			folder = resume.DefaultFolder
		}
		seen[folder] = struct{}{}
	}
	folders := make([]string, 0, len(seen))
	for folder := range seen {
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	return folders
}

// SaveResume upserts the record into the backend the session makes
// authoritative, stamping its last-modified time. When an
// authenticated remote write fails, the record is parked in the local
// tier and the caller gets SaveStatusFallback together with the remote
// error, so data survives an outage without the failure being silent.
func (f *Facade) SaveResume(ctx context.Context, rec *resume.Record) (SaveStatus, error) {
	if rec == nil || rec.ID == "" {
		return "", ErrMissingID
	}
	rec.Normalize()
	rec.UpdatedAt = f.now().UTC()

	sess := f.sessions.Resolve(ctx)
	if !sess.Authenticated() {
		if err := f.local.Upsert(ctx, sess.LocalKey(), *rec); err != nil {
			f.logger.Error("local save failed", slog.String("resume_id", rec.ID), slog.Any("error", err))
			return SaveStatusLocal, err
		}
		return SaveStatusLocal, nil
	}

	if err := f.remote.Upsert(ctx, sess.UserID, *rec); err != nil {
		f.logger.Warn("remote save failed, keeping local fallback copy",
			slog.String("resume_id", rec.ID),
			slog.Uint64("user_id", uint64(sess.UserID)),
			slog.Any("error", err))
		metrics.RemoteFallback("save")
		if localErr := f.local.Upsert(ctx, sess.LocalKey(), *rec); localErr != nil {
			f.logger.Error("fallback local save also failed",
				slog.String("resume_id", rec.ID), slog.Any("error", localErr))
		}
		return SaveStatusFallback, err
	}
	return SaveStatusCloud, nil
}

// CreateResume builds a blank record in the given folder, persists it
// and returns it.
func (f *Facade) CreateResume(ctx context.Context, folder string) (resume.Record, SaveStatus, error) {
	if folder == "" {
		folder = resume.DefaultFolder
	}
	rec := resume.New(folder)
	status, err := f.SaveResume(ctx, &rec)
	return rec, status, err
}

// DeleteResume hard-deletes the record from the authoritative backend.
func (f *Facade) DeleteResume(ctx context.Context, id string) error {
	sess := f.sessions.Resolve(ctx)
	if sess.Authenticated() {
		err := f.remote.Delete(ctx, sess.UserID, id)
		if err != nil && err != ErrNotFound {
			f.logger.Error("remote delete failed", slog.String("resume_id", id), slog.Any("error", err))
		}
		return err
	}
	return f.local.Delete(ctx, sess.LocalKey(), id)
}

// DuplicateResume clones an existing record under a new identifier and
// a marked title, persists the clone and returns it.
func (f *Facade) DuplicateResume(ctx context.Context, id string) (resume.Record, SaveStatus, error) {
	src, err := f.GetResume(ctx, id)
	if err != nil {
		return resume.Record{}, "", err
	}
	dup := resume.Clone(src)
	status, err := f.SaveResume(ctx, &dup)
	return dup, status, err
}

func sortByUpdatedDesc(records []resume.Record) []resume.Record {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records
}
