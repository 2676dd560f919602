package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydrahunt/internal/resume"
)

// fakeRemote is an in-memory RemoteStore with switchable failures.
type fakeRemote struct {
	records map[uint]map[string]resume.Record
	fail    bool
	failIDs map[string]bool
	upserts int
}

var errRemoteDown = errors.New("remote unreachable")

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: map[uint]map[string]resume.Record{}}
}

func (r *fakeRemote) ListByAccount(_ context.Context, userID uint) ([]resume.Record, error) {
	if r.fail {
		return nil, errRemoteDown
	}
	out := make([]resume.Record, 0, len(r.records[userID]))
	for _, rec := range r.records[userID] {
		out = append(out, rec)
	}
	return sortByUpdatedDesc(out), nil
}

func (r *fakeRemote) Upsert(_ context.Context, userID uint, rec resume.Record) error {
	if r.fail || r.failIDs[rec.ID] {
		return errRemoteDown
	}
	if r.records[userID] == nil {
		r.records[userID] = map[string]resume.Record{}
	}
	r.records[userID][rec.ID] = rec
	r.upserts++
	return nil
}

func (r *fakeRemote) Delete(_ context.Context, userID uint, id string) error {
	if r.fail {
		return errRemoteDown
	}
	if _, ok := r.records[userID][id]; !ok {
		return ErrNotFound
	}
	delete(r.records[userID], id)
	return nil
}

type facadeFixture struct {
	facade *Facade
	local  *SQLiteStore
	remote *fakeRemote
	clock  *fakeClock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newFacadeFixture(t *testing.T) *facadeFixture {
	t.Helper()
	local := NewSQLiteStore(newLocalDB(t), nil)
	remote := newFakeRemote()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	facade := NewFacade(ContextResolver{}, local, remote, nil)
	facade.now = clock.Now
	return &facadeFixture{facade: facade, local: local, remote: remote, clock: clock}
}

func guestCtx(deviceID string) context.Context {
	return WithSession(context.Background(), Session{DeviceID: deviceID})
}

func userCtx(userID uint, deviceID string) context.Context {
	return WithSession(context.Background(), Session{UserID: userID, DeviceID: deviceID})
}

func TestListResumesSeedsEmptyGuestScope(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	got := fx.facade.ListResumes(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, resume.SeedID, got[0].ID)

	// The seed is served, not persisted.
	assert.Empty(t, fx.local.List(ctx, Session{DeviceID: "device-1"}.LocalKey()))
}

func TestSaveResumeGuestGoesLocal(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	rec := resume.New("")
	status, err := fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)
	assert.Equal(t, SaveStatusLocal, status)
	assert.False(t, rec.UpdatedAt.IsZero())

	got := fx.facade.ListResumes(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.Zero(t, fx.remote.upserts)
}

func TestSaveResumeRequiresID(t *testing.T) {
	fx := newFacadeFixture(t)

	_, err := fx.facade.SaveResume(guestCtx("device-1"), &resume.Record{})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = fx.facade.SaveResume(guestCtx("device-1"), nil)
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestSaveResumeAppliesDefaults(t *testing.T) {
	fx := newFacadeFixture(t)

	rec := resume.Record{ID: "r1"}
	status, err := fx.facade.SaveResume(guestCtx("device-1"), &rec)
	require.NoError(t, err)
	assert.Equal(t, SaveStatusLocal, status)
	assert.Equal(t, resume.DefaultFolder, rec.Folder)
	assert.Equal(t, resume.DefaultTemplateID, rec.Content.TemplateID)
}

func TestSaveResumeAuthenticatedGoesRemote(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := userCtx(7, "device-1")

	rec := resume.New("Work")
	status, err := fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)
	assert.Equal(t, SaveStatusCloud, status)
	assert.Contains(t, fx.remote.records[7], rec.ID)

	// Nothing leaks into the local fallback tier on a clean save.
	assert.Empty(t, fx.local.List(ctx, Session{UserID: 7}.LocalKey()))
}

func TestSaveResumeFallsBackWhenRemoteFails(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := userCtx(7, "device-1")
	fx.remote.fail = true

	rec := resume.New("")
	status, err := fx.facade.SaveResume(ctx, &rec)
	assert.Equal(t, SaveStatusFallback, status)
	assert.ErrorIs(t, err, errRemoteDown)

	local := fx.local.List(ctx, Session{UserID: 7}.LocalKey())
	require.Len(t, local, 1)
	assert.Equal(t, rec.ID, local[0].ID)
}

func TestListResumesDegradesToLocalWhenRemoteFails(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := userCtx(7, "device-1")
	fx.remote.fail = true

	rec := resume.New("")
	_, err := fx.facade.SaveResume(ctx, &rec)
	require.Error(t, err)

	got := fx.facade.ListResumes(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
}

func TestListResumesNewestFirst(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	first := resume.New("")
	second := resume.New("")
	_, err := fx.facade.SaveResume(ctx, &first)
	require.NoError(t, err)
	_, err = fx.facade.SaveResume(ctx, &second)
	require.NoError(t, err)

	got := fx.facade.ListResumes(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestGetResume(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	rec := resume.New("")
	_, err := fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)

	got, err := fx.facade.GetResume(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = fx.facade.GetResume(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveResumeTwiceIsUpsertNotAppend(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	rec := resume.New("")
	_, err := fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)
	_, err = fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)

	assert.Len(t, fx.facade.ListResumes(ctx), 1)
}

func TestListFoldersTracksFolderChanges(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	rec := resume.New("Old")
	_, err := fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"Old"}, fx.facade.ListFolders(ctx))

	rec.Folder = "New"
	_, err = fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, fx.facade.ListFolders(ctx))
}

func TestListFoldersSortedAndUnique(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	for _, folder := range []string{"Work", "Drafts", "Work"} {
		rec := resume.New(folder)
		_, err := fx.facade.SaveResume(ctx, &rec)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"Drafts", "Work"}, fx.facade.ListFolders(ctx))
}

func TestCreateResume(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	rec, status, err := fx.facade.CreateResume(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, SaveStatusLocal, status)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, resume.DefaultFolder, rec.Folder)

	got := fx.facade.ListResumes(ctx)
	require.Len(t, got, 1)
}

func TestDuplicateResume(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	rec := resume.New("")
	rec.Title = "Original"
	_, err := fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)

	dup, status, err := fx.facade.DuplicateResume(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, SaveStatusLocal, status)
	assert.NotEqual(t, rec.ID, dup.ID)
	assert.Equal(t, "Original (Copy)", dup.Title)

	assert.Len(t, fx.facade.ListResumes(ctx), 2)

	_, _, err = fx.facade.DuplicateResume(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteResume(t *testing.T) {
	fx := newFacadeFixture(t)
	ctx := guestCtx("device-1")

	rec := resume.New("")
	_, err := fx.facade.SaveResume(ctx, &rec)
	require.NoError(t, err)

	require.NoError(t, fx.facade.DeleteResume(ctx, rec.ID))
	assert.ErrorIs(t, fx.facade.DeleteResume(ctx, rec.ID), ErrNotFound)
}

func TestGuestScopesAreIsolatedByDevice(t *testing.T) {
	fx := newFacadeFixture(t)

	rec := resume.New("")
	_, err := fx.facade.SaveResume(guestCtx("device-a"), &rec)
	require.NoError(t, err)

	other := fx.facade.ListResumes(guestCtx("device-b"))
	require.Len(t, other, 1)
	assert.Equal(t, resume.SeedID, other[0].ID)
}

func TestSessionLocalKey(t *testing.T) {
	assert.Equal(t, "guest:dev-1", Session{DeviceID: "dev-1"}.LocalKey())
	assert.Equal(t, "user:42", Session{UserID: 42, DeviceID: "dev-1"}.LocalKey())
}

func TestStaticResolver(t *testing.T) {
	r := StaticResolver{Session: Session{UserID: 9}}
	sess := r.Resolve(context.Background())
	assert.Equal(t, uint(9), sess.UserID)
	assert.True(t, sess.Authenticated())
}

func TestContextResolverDefaultsToGuest(t *testing.T) {
	sess := ContextResolver{}.Resolve(context.Background())
	assert.False(t, sess.Authenticated())
	assert.Equal(t, "guest:", sess.LocalKey())
}
