package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omkarsat/lumi-agent/internal/api/handler"
	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/service"
	"github.com/omkarsat/lumi-agent/internal/session"
)

// stubRepo is a minimal in-memory RecordRepository for handler tests
type stubRepo struct {
	records map[string]*domain.SupportRecord
	pingErr error
}

func (s *stubRepo) Create(ctx context.Context, record *domain.SupportRecord) error {
	s.records[record.ID] = record
	return nil
}

func (s *stubRepo) Get(ctx context.Context, id string) (*domain.SupportRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

func (s *stubRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := s.records[id]
	return ok, nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id string, status domain.RecordStatus) error {
	return nil
}

func (s *stubRepo) Ping(ctx context.Context) error { return s.pingErr }

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, true, response["success"])

	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestReadyCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		repo := &stubRepo{records: map[string]*domain.SupportRecord{}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil)
		rec := httptest.NewRecorder()

		handler.ReadyCheck(repo)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store unavailable", func(t *testing.T) {
		repo := &stubRepo{records: map[string]*domain.SupportRecord{}, pingErr: context.DeadlineExceeded}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil)
		rec := httptest.NewRecorder()

		handler.ReadyCheck(repo)(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRecordHandler_Get(t *testing.T) {
	repo := &stubRepo{records: map[string]*domain.SupportRecord{
		"A1B2C3D4": {ID: "A1B2C3D4", Name: "Sarah Johnson", Status: domain.StatusCreated},
	}}
	h := handler.NewRecordHandler(service.NewRecordService(repo))

	r := chi.NewRouter()
	r.Get("/records/{recordID}", h.Get)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/records/a1b2c3d4", nil)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Sarah Johnson")
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/records/ZZZZZZZZ", nil)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSessionHandler(t *testing.T) {
	sessions := session.NewStore(20)
	sessions.Append("s1", domain.RoleUser, "hello")
	sessions.Append("s1", domain.RoleAgent, "hi, how can I help?")

	h := handler.NewSessionHandler(sessions)

	r := chi.NewRouter()
	r.Get("/sessions/{sessionID}/history", h.History)
	r.Post("/sessions/{sessionID}/clear", h.Clear)

	t.Run("history", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sessions/s1/history", nil)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "hello")
		assert.Contains(t, rec.Body.String(), "hi, how can I help?")
	})

	t.Run("clear", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions/s1/clear", nil)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, sessions.History("s1"))
	})
}
