package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hydrahunt/internal/database"
	"hydrahunt/internal/resume"
)

func newLocalDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.GuestCollection{}))
	return db
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(newLocalDB(t), nil)

	key := "guest:device-1"
	assert.Empty(t, s.List(ctx, key))

	rec := resume.New("Jobs")
	rec.Title = "Backend Role"
	require.NoError(t, s.Upsert(ctx, key, rec))

	got := s.List(ctx, key)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, "Backend Role", got[0].Title)
	assert.Equal(t, "Jobs", got[0].Folder)
}

func TestSQLiteStoreUpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(newLocalDB(t), nil)
	key := "guest:device-1"

	rec := resume.New("")
	require.NoError(t, s.Upsert(ctx, key, rec))

	rec.Title = "Renamed"
	require.NoError(t, s.Upsert(ctx, key, rec))

	got := s.List(ctx, key)
	require.Len(t, got, 1)
	assert.Equal(t, "Renamed", got[0].Title)
}

func TestSQLiteStoreNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(newLocalDB(t), nil)

	require.NoError(t, s.Upsert(ctx, "guest:a", resume.New("")))
	require.NoError(t, s.Upsert(ctx, "guest:b", resume.New("")))

	assert.Len(t, s.List(ctx, "guest:a"), 1)
	assert.Len(t, s.List(ctx, "guest:b"), 1)

	require.NoError(t, s.Clear(ctx, "guest:a"))
	assert.Empty(t, s.List(ctx, "guest:a"))
	assert.Len(t, s.List(ctx, "guest:b"), 1)
}

func TestSQLiteStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(newLocalDB(t), nil)
	key := "guest:device-1"

	rec := resume.New("")
	require.NoError(t, s.Upsert(ctx, key, rec))

	assert.ErrorIs(t, s.Delete(ctx, key, "no-such-id"), ErrNotFound)
	require.NoError(t, s.Delete(ctx, key, rec.ID))
	assert.Empty(t, s.List(ctx, key))
}

func TestSQLiteStoreMalformedPayloadReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	db := newLocalDB(t)
	s := NewSQLiteStore(db, nil)
	key := "guest:device-1"

	row := database.GuestCollection{Key: key, Payload: datatypes.JSON([]byte("{not json"))}
	require.NoError(t, db.Create(&row).Error)

	assert.Empty(t, s.List(ctx, key))

	// The namespace stays writable after the bad payload is replaced.
	require.NoError(t, s.Upsert(ctx, key, resume.New("")))
	assert.Len(t, s.List(ctx, key), 1)
}

func TestSQLiteStoreAppliesDefaultsOnRead(t *testing.T) {
	ctx := context.Background()
	db := newLocalDB(t)
	s := NewSQLiteStore(db, nil)
	key := "guest:device-1"

	payload := []byte(`[{"id":"r1","title":"Old Format"}]`)
	row := database.GuestCollection{Key: key, Payload: datatypes.JSON(payload)}
	require.NoError(t, db.Create(&row).Error)

	got := s.List(ctx, key)
	require.Len(t, got, 1)
	assert.Equal(t, resume.DefaultFolder, got[0].Folder)
	assert.Equal(t, resume.DefaultTemplateID, got[0].Content.TemplateID)
	assert.NotNil(t, got[0].Content.Experience)
	assert.NotNil(t, got[0].Content.Skills)
}
