package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hydrahunt/internal/database"
	"hydrahunt/internal/errcode"
	"hydrahunt/internal/resume"
	"hydrahunt/internal/store"
)

type stubRemote struct {
	records map[uint]map[string]resume.Record
	fail    bool
}

var errRemoteDown = errors.New("remote unreachable")

func newStubRemote() *stubRemote {
	return &stubRemote{records: map[uint]map[string]resume.Record{}}
}

func (r *stubRemote) ListByAccount(_ context.Context, userID uint) ([]resume.Record, error) {
	if r.fail {
		return nil, errRemoteDown
	}
	out := make([]resume.Record, 0, len(r.records[userID]))
	for _, rec := range r.records[userID] {
		out = append(out, rec)
	}
	return out, nil
}

func (r *stubRemote) Upsert(_ context.Context, userID uint, rec resume.Record) error {
	if r.fail {
		return errRemoteDown
	}
	if r.records[userID] == nil {
		r.records[userID] = map[string]resume.Record{}
	}
	r.records[userID][rec.ID] = rec
	return nil
}

func (r *stubRemote) Delete(_ context.Context, userID uint, id string) error {
	if r.fail {
		return errRemoteDown
	}
	if _, ok := r.records[userID][id]; !ok {
		return store.ErrNotFound
	}
	delete(r.records[userID], id)
	return nil
}

func newTestFacade(t *testing.T) (*store.Facade, *stubRemote) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.GuestCollection{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	remote := newStubRemote()
	facade := store.NewFacade(store.ContextResolver{}, store.NewSQLiteStore(db, nil), remote, nil)
	return facade, remote
}

// stubSession pins the caller identity without running the real cookie
// and token middleware.
func stubSession(sess store.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session", sess)
		c.Request = c.Request.WithContext(store.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

func newResumeRouter(t *testing.T, sess store.Session) (*gin.Engine, *stubRemote) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	facade, remote := newTestFacade(t)
	h := NewResumeHandler(facade, nil, nil, nil, 0)

	router := gin.New()
	group := router.Group("/v1/resumes")
	group.Use(stubSession(sess))
	group.GET("", h.ListResumes)
	group.POST("", h.CreateResume)
	group.GET("/folders", h.ListFolders)
	group.GET("/templates", h.ListTemplates)
	group.GET("/:id", h.GetResume)
	group.PUT("/:id", h.SaveResume)
	group.DELETE("/:id", h.DeleteResume)
	group.POST("/:id/duplicate", h.DuplicateResume)
	return router, remote
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func guestSession() store.Session {
	return store.Session{DeviceID: "device-test"}
}

func TestListResumes_GuestGetsSeed(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	w := doJSON(t, router, http.MethodGet, "/v1/resumes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var records []resume.Record
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(records) != 1 || records[0].ID != resume.SeedID {
		t.Fatalf("expected the seed record, got %+v", records)
	}
}

func TestSaveResume_GuestRoundTrip(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	rec := resume.New("Jobs")
	rec.Title = "Backend Role"
	w := doJSON(t, router, http.MethodPut, "/v1/resumes/"+rec.ID, rec)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp saveResumeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Storage != store.SaveStatusLocal {
		t.Fatalf("storage = %q, want %q", resp.Storage, store.SaveStatusLocal)
	}
	if resp.Resume.UpdatedAt.IsZero() {
		t.Error("saved record must carry a timestamp")
	}

	w = doJSON(t, router, http.MethodGet, "/v1/resumes/"+rec.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get after save: status = %d", w.Code)
	}
}

func TestSaveResume_IDMismatch(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	rec := resume.New("")
	w := doJSON(t, router, http.MethodPut, "/v1/resumes/other-id", rec)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSaveResume_UnknownTemplate(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	rec := resume.New("")
	rec.Content.TemplateID = "vaporwave"
	w := doJSON(t, router, http.MethodPut, "/v1/resumes/"+rec.ID, rec)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSaveResume_FallbackKeepsStatus200(t *testing.T) {
	sess := store.Session{UserID: 7, DeviceID: "device-test"}
	router, remote := newResumeRouter(t, sess)
	remote.fail = true

	rec := resume.New("")
	w := doJSON(t, router, http.MethodPut, "/v1/resumes/"+rec.ID, rec)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp saveResumeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Storage != store.SaveStatusFallback {
		t.Fatalf("storage = %q, want %q", resp.Storage, store.SaveStatusFallback)
	}
	if resp.Error == "" {
		t.Error("fallback response must surface the remote error")
	}
	if resp.Code != errcode.DegradedSave {
		t.Errorf("code = %d, want %d", resp.Code, errcode.DegradedSave)
	}
}

func TestCreateResume_WithFolder(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	w := doJSON(t, router, http.MethodPost, "/v1/resumes", map[string]string{"folder": "Interviews"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp saveResumeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Resume.Folder != "Interviews" {
		t.Fatalf("folder = %q", resp.Resume.Folder)
	}
}

func TestCreateResume_EmptyBodyUsesDefaults(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	w := doJSON(t, router, http.MethodPost, "/v1/resumes", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp saveResumeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Resume.Folder != resume.DefaultFolder {
		t.Fatalf("folder = %q, want default", resp.Resume.Folder)
	}
}

func TestDeleteResume(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	rec := resume.New("")
	if w := doJSON(t, router, http.MethodPut, "/v1/resumes/"+rec.ID, rec); w.Code != http.StatusOK {
		t.Fatalf("seed save: status = %d", w.Code)
	}

	w := doJSON(t, router, http.MethodDelete, "/v1/resumes/"+rec.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/v1/resumes/"+rec.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d, want 404", w.Code)
	}
}

func TestDuplicateResume(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	rec := resume.New("")
	rec.Title = "Original"
	if w := doJSON(t, router, http.MethodPut, "/v1/resumes/"+rec.ID, rec); w.Code != http.StatusOK {
		t.Fatalf("seed save: status = %d", w.Code)
	}

	w := doJSON(t, router, http.MethodPost, "/v1/resumes/"+rec.ID+"/duplicate", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp saveResumeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Resume.ID == rec.ID || resp.Resume.Title != "Original (Copy)" {
		t.Fatalf("unexpected duplicate: %+v", resp.Resume)
	}
}

func TestListFolders(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	for _, folder := range []string{"Work", "Drafts"} {
		rec := resume.New(folder)
		if w := doJSON(t, router, http.MethodPut, "/v1/resumes/"+rec.ID, rec); w.Code != http.StatusOK {
			t.Fatalf("save: status = %d", w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/v1/resumes/folders", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Folders []string `json:"folders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Folders) != 2 || resp.Folders[0] != "Drafts" || resp.Folders[1] != "Work" {
		t.Fatalf("folders = %v", resp.Folders)
	}
}

func TestListTemplates(t *testing.T) {
	router, _ := newResumeRouter(t, guestSession())

	w := doJSON(t, router, http.MethodGet, "/v1/resumes/templates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Templates []resume.Template `json:"templates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Templates) != len(resume.Templates()) {
		t.Fatalf("got %d templates", len(resp.Templates))
	}
}
