package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/brainlog/internal/config"
	"github.com/deppfellow/brainlog/internal/errs"
	"github.com/deppfellow/brainlog/internal/handler"
	"github.com/deppfellow/brainlog/internal/model"
	"github.com/deppfellow/brainlog/internal/server"
	"github.com/deppfellow/brainlog/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDB mimics the two brainlog tables, including the constraint errors
// PostgreSQL would raise.
type memDB struct {
	mu      sync.Mutex
	calls   int
	clock   time.Time
	types   map[uuid.UUID]*model.EntryType
	entries map[uuid.UUID]*model.Entry
}

func newMemDB() *memDB {
	return &memDB{
		clock:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		types:   map[uuid.UUID]*model.EntryType{},
		entries: map[uuid.UUID]*model.Entry{},
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func notFound(table string) error {
	return fmt.Errorf("table:%s: %w", table, pgx.ErrNoRows)
}

func page[T any](items []T, limit, offset int64) *model.Page[T] {
	total := int64(len(items))
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return model.NewPage(total, items[offset:end])
}

type memTypes struct{ db *memDB }

func (s memTypes) Create(_ context.Context, in model.NewEntryType) (*model.EntryType, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	for _, t := range s.db.types {
		if t.Name == in.Name {
			return nil, fmt.Errorf("table:brainlog_entry_type: %w", &pgconn.PgError{
				Code: "23505", TableName: "brainlog_entry_type", ConstraintName: "brainlog_entry_type_name_key",
			})
		}
	}

	now := s.db.tick()
	t := &model.EntryType{ID: uuid.New(), Name: in.Name, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	s.db.types[t.ID] = t
	out := *t
	return &out, nil
}

func (s memTypes) Get(_ context.Context, id uuid.UUID) (*model.EntryType, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	t, ok := s.db.types[id]
	if !ok {
		return nil, notFound("brainlog_entry_type")
	}
	out := *t
	return &out, nil
}

func (s memTypes) Update(_ context.Context, id uuid.UUID, patch model.EntryTypePatch) (*model.EntryType, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	t, ok := s.db.types[id]
	if !ok {
		return nil, notFound("brainlog_entry_type")
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	t.UpdatedAt = s.db.tick()
	out := *t
	return &out, nil
}

func (s memTypes) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	if _, ok := s.db.types[id]; !ok {
		return notFound("brainlog_entry_type")
	}
	for _, e := range s.db.entries {
		if e.LogType == id {
			return fmt.Errorf("table:brainlog_entry_type: %w", &pgconn.PgError{
				Code: "23503", TableName: "brainlog_entry", ConstraintName: "brainlog_entry_log_type_fkey",
			})
		}
	}
	delete(s.db.types, id)
	return nil
}

func (s memTypes) List(_ context.Context, limit, offset int64) (*model.Page[model.EntryType], error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	items := make([]model.EntryType, 0, len(s.db.types))
	for _, t := range s.db.types {
		items = append(items, *t)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return page(items, limit, offset), nil
}

type memEntries struct{ db *memDB }

func (s memEntries) fkError() error {
	return fmt.Errorf("table:brainlog_entry: %w", &pgconn.PgError{
		Code: "23503", TableName: "brainlog_entry", ConstraintName: "brainlog_entry_log_type_fkey",
	})
}

func (s memEntries) Create(_ context.Context, in model.NewEntry) (*model.Entry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	if _, ok := s.db.types[in.LogType]; !ok {
		return nil, s.fkError()
	}

	now := s.db.tick()
	e := &model.Entry{ID: uuid.New(), Body: in.Body, LogType: in.LogType, Time: now, CreatedAt: now, UpdatedAt: now}
	if in.Time != nil {
		e.Time = *in.Time
	}
	s.db.entries[e.ID] = e
	out := *e
	return &out, nil
}

func (s memEntries) Get(_ context.Context, id uuid.UUID) (*model.Entry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	e, ok := s.db.entries[id]
	if !ok {
		return nil, notFound("brainlog_entry")
	}
	out := *e
	return &out, nil
}

func (s memEntries) Update(_ context.Context, id uuid.UUID, patch model.EntryPatch) (*model.Entry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	e, ok := s.db.entries[id]
	if !ok {
		return nil, notFound("brainlog_entry")
	}
	if patch.LogType != nil {
		if _, ok := s.db.types[*patch.LogType]; !ok {
			return nil, s.fkError()
		}
		e.LogType = *patch.LogType
	}
	if patch.Body != nil {
		e.Body = *patch.Body
	}
	if patch.Time != nil {
		e.Time = *patch.Time
	}
	e.UpdatedAt = s.db.tick()
	out := *e
	return &out, nil
}

func (s memEntries) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	if _, ok := s.db.entries[id]; !ok {
		return notFound("brainlog_entry")
	}
	delete(s.db.entries, id)
	return nil
}

func (s memEntries) List(_ context.Context, limit, offset int64) (*model.Page[model.Entry], error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.calls++

	items := make([]model.Entry, 0, len(s.db.entries))
	for _, e := range s.db.entries {
		items = append(items, *e)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Time.After(items[j].Time) })
	return page(items, limit, offset), nil
}

func newTestRouter(t *testing.T) (*echo.Echo, *memDB) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				BasePath:           "/api",
				CORSAllowedOrigins: []string{"*"},
			},
			RateLimit:     &config.RateLimitConfig{Enabled: false},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}

	db := newMemDB()
	services := &service.Services{
		EntryType: service.NewResourceService[model.EntryType, model.NewEntryType, model.EntryTypePatch](memTypes{db}, "entry type"),
		Entry:     service.NewResourceService[model.Entry, model.NewEntry, model.EntryPatch](memEntries{db}, "entry"),
	}

	return NewRouter(s, handler.NewHandlers(s, services)), db
}

func do(t *testing.T, e *echo.Echo, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createType(t *testing.T, e *echo.Echo, name string) model.EntryType {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/api/brainlog/type/create", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.EntryType](t, rec)
}

func createEntry(t *testing.T, e *echo.Echo, body string, logType uuid.UUID) model.Entry {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/api/brainlog/create", map[string]any{"body": body, "log_type": logType})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Entry](t, rec)
}

func TestEntryTypeLifecycle(t *testing.T) {
	e, _ := newTestRouter(t)

	created := createType(t, e, "idea")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "", created.Description)

	rec := do(t, e, http.MethodGet, "/api/brainlog/type/get?id="+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[model.EntryType](t, rec))

	rec = do(t, e, http.MethodPost, "/api/brainlog/type/update?id="+created.ID.String(), map[string]string{"description": "half-baked"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.EntryType](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "idea", updated.Name)
	assert.Equal(t, "half-baked", updated.Description)

	rec = do(t, e, http.MethodGet, "/api/brainlog/type/delete?id="+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/brainlog/type/get?id="+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Brainlog Entry Type not found", decode[errs.HTTPError](t, rec).Message)

	rec = do(t, e, http.MethodGet, "/api/brainlog/type/delete?id="+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateTypeName(t *testing.T) {
	e, _ := newTestRouter(t)
	createType(t, e, "idea")

	rec := do(t, e, http.MethodPost, "/api/brainlog/type/create", map[string]string{"name": "idea"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "BRAINLOG_ENTRY_TYPE_ALREADY_EXISTS", body.Code)
	assert.Equal(t, "A Brainlog Entry Type with this Name already exists", body.Message)
}

func TestCreateTypeValidation(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/brainlog/type/create", map[string]string{"description": "no name"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errs.HTTPError](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "name", Error: "is required"}, body.Errors[0])
}

func TestEntryLifecycle(t *testing.T) {
	e, _ := newTestRouter(t)
	idea := createType(t, e, "idea")
	todo := createType(t, e, "todo")

	entry := createEntry(t, e, "water the plants", idea.ID)
	assert.Equal(t, idea.ID, entry.LogType)
	assert.False(t, entry.Time.IsZero())

	rec := do(t, e, http.MethodGet, "/api/brainlog/get?id="+entry.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entry, decode[model.Entry](t, rec))

	rec = do(t, e, http.MethodPost, "/api/brainlog/update?id="+entry.ID.String(), map[string]any{"log_type": todo.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Entry](t, rec)
	assert.Equal(t, entry.ID, updated.ID)
	assert.Equal(t, todo.ID, updated.LogType)
	assert.Equal(t, "water the plants", updated.Body)
	assert.True(t, updated.Time.Equal(entry.Time))

	rec = do(t, e, http.MethodGet, "/api/brainlog/delete?id="+entry.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/brainlog/get?id="+entry.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Brainlog Entry not found", decode[errs.HTTPError](t, rec).Message)
}

func TestEntryWithExplicitTime(t *testing.T) {
	e, _ := newTestRouter(t)
	idea := createType(t, e, "idea")
	at := time.Date(2023, 6, 1, 8, 30, 0, 0, time.UTC)

	rec := do(t, e, http.MethodPost, "/api/brainlog/create", map[string]any{"body": "old note", "log_type": idea.ID, "time": at})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decode[model.Entry](t, rec).Time.Equal(at))
}

func TestEntryUnknownLogType(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/brainlog/create", map[string]any{"body": "orphan", "log_type": uuid.New()})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "BRAINLOG_ENTRY_NOT_FOUND", body.Code)
	assert.Equal(t, "The referenced Log Type does not exist", body.Message)
}

func TestDeleteReferencedType(t *testing.T) {
	e, _ := newTestRouter(t)
	idea := createType(t, e, "idea")
	createEntry(t, e, "still here", idea.ID)

	rec := do(t, e, http.MethodGet, "/api/brainlog/type/delete?id="+idea.ID.String(), nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode[errs.HTTPError](t, rec).Code)

	rec = do(t, e, http.MethodGet, "/api/brainlog/type/get?id="+idea.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMalformedIDSkipsStore(t *testing.T) {
	e, db := newTestRouter(t)

	for _, target := range []string{
		"/api/brainlog/get?id=abc",
		"/api/brainlog/delete?id=abc",
		"/api/brainlog/type/get?id=123",
		"/api/brainlog/type/delete?id=123",
	} {
		rec := do(t, e, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "INVALID_ID", decode[errs.HTTPError](t, rec).Code, target)
	}

	rec := do(t, e, http.MethodPost, "/api/brainlog/update?id=abc", map[string]string{"body": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/brainlog/get", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, db.calls)
}

func TestListPagination(t *testing.T) {
	e, _ := newTestRouter(t)
	idea := createType(t, e, "idea")
	for i := 0; i < 15; i++ {
		createEntry(t, e, fmt.Sprintf("note %d", i), idea.ID)
	}

	rec := do(t, e, http.MethodGet, "/api/brainlog/list?page=0&pagesize=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[model.Page[model.Entry]](t, rec)
	assert.Equal(t, int64(15), first.TotalItems)
	require.Len(t, first.Items, 10)
	assert.Equal(t, "note 14", first.Items[0].Body, "newest first")

	rec = do(t, e, http.MethodGet, "/api/brainlog/list?page=1&pagesize=10", nil)
	second := decode[model.Page[model.Entry]](t, rec)
	assert.Len(t, second.Items, 5)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(first.Items, second.Items...) {
		seen[item.ID] = true
	}
	assert.Len(t, seen, 15)

	rec = do(t, e, http.MethodGet, "/api/brainlog/list?page=5&pagesize=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_items":15,"items":[]}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/brainlog/list", nil)
	assert.Len(t, decode[model.Page[model.Entry]](t, rec).Items, 15)
}

func TestListRejectsBadPagination(t *testing.T) {
	e, _ := newTestRouter(t)

	for _, query := range []string{"page=-1", "pagesize=-10", "page=abc"} {
		rec := do(t, e, http.MethodGet, "/api/brainlog/type/list?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestListRejectsOverflowingPage(t *testing.T) {
	e, db := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/api/brainlog/type/list?page=92233720368547759&pagesize=1000", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errs.HTTPError](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "page", body.Errors[0].Field)
	assert.Zero(t, db.calls)
}

func TestEmptyTypeList(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/api/brainlog/type/list", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_items":0,"items":[]}`, rec.Body.String())
}

func TestStatusAndRequestID(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/status", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "healthy", decode[map[string]any](t, rec)["status"])
}

func TestRoutesRequireBasePath(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/brainlog/type/list", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}
