package adaptor

import (
	"context"
	"net/http"
	"testing"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/internal/scheduling"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubAuthService struct {
	registered *request.RegisterRequest
	err        error
}

func (s *stubAuthService) Register(_ context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	s.registered = req
	if s.err != nil {
		return nil, s.err
	}
	return &response.AuthResponse{UserID: uuid.NewString(), Email: req.Email, Role: entity.RoleClient}, nil
}

func (s *stubAuthService) Login(context.Context, *request.LoginRequest) (*response.AuthResponse, error) {
	return nil, usecase.ErrInvalidCredentials
}

func (s *stubAuthService) Logout(context.Context, uuid.UUID) error { return nil }

func (s *stubAuthService) Me(_ context.Context, id uuid.UUID) (*response.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response.UserResponse{ID: id.String(), Role: entity.RoleClient}, nil
}

func newAuthRouter(t *testing.T, svc usecase.AuthService, userID uuid.UUID) http.Handler {
	t.Helper()
	h := NewAuthHandler(svc, zaptest.NewLogger(t))

	r := chi.NewRouter()
	r.Post("/api/auth/register", h.Register)
	r.With(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(utils.SetUserContext(req.Context(), userID, entity.RoleClient)))
		})
	}).Get("/api/auth/me", h.Me)
	return r
}

const registerBody = `{"email":"nia@studio.test","password":"long-enough","first_name":"Nia","last_name":"Ko"}`

func TestRegisterHandler(t *testing.T) {
	svc := &stubAuthService{}
	rec, resp := do(newAuthRouter(t, svc, uuid.New()), http.MethodPost, "/api/auth/register", registerBody)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Status)
	require.NotNil(t, svc.registered)
	assert.NotEmpty(t, svc.registered.IPAddress)

	svc = &stubAuthService{err: usecase.ErrEmailTaken}
	rec, _ = do(newAuthRouter(t, svc, uuid.New()), http.MethodPost, "/api/auth/register", registerBody)
	assert.Equal(t, http.StatusConflict, rec.Code)

	svc = &stubAuthService{}
	rec, resp = do(newAuthRouter(t, svc, uuid.New()), http.MethodPost, "/api/auth/register",
		`{"email":"nia@studio.test","password":"short","first_name":"Nia"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.registered)
	assert.NotNil(t, resp.Errors)
}

func TestMeHandler(t *testing.T) {
	user := uuid.New()
	rec, _ := do(newAuthRouter(t, &stubAuthService{}, user), http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.String())

	svc := &stubAuthService{err: &scheduling.NotFoundError{Resource: "user", ID: user.String()}}
	rec, _ = do(newAuthRouter(t, svc, user), http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
