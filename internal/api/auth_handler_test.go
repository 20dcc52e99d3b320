package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	apimw "github.com/phrazzld/cards-api/internal/api/middleware"
	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/mocks"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T, svc service.AuthService) (http.Handler, *logger.TestLogBuffer) {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	h := NewAuthHandler(svc, log, false)
	r := chi.NewRouter()
	r.Use(apimw.NewTraceMiddleware(log))
	r.Post("/v1/user/sign-in", h.SignIn)
	return r, buf
}

func TestAuthHandler_SignIn(t *testing.T) {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		var gotEmail, gotPassword string
		svc := &mocks.MockAuthService{
			SignInFn: func(_ context.Context, email, password string) (*service.SignInResult, error) {
				gotEmail, gotPassword = email, password
				return &service.SignInResult{
					Token:     "signed.jwt.token",
					ExpiresAt: expires,
					User: &domain.User{
						ID:        12,
						FirstName: "Ada",
						LastName:  "Admin",
						Email:     "admin@cards.com",
						Roles:     []string{domain.RoleMember, domain.RoleAdmin},
					},
				}, nil
			},
		}
		router, _ := newAuthRouter(t, svc)

		rr := do(t, router, http.MethodPost, "/v1/user/sign-in",
			strings.NewReader(`{"email":"admin@cards.com","password":"letmein@45"}`))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "admin@cards.com", gotEmail)
		assert.Equal(t, "letmein@45", gotPassword)

		var env struct {
			Data []SignInResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
		require.Len(t, env.Data, 1)
		assert.Equal(t, SignInResponse{
			AccessToken: "signed.jwt.token",
			Expires:     expires.Unix(),
			ExpiresAt:   "2030-01-01T00:00:00Z",
			User: UserResponse{
				UserID:    "12",
				FirstName: "Ada",
				LastName:  "Admin",
				Email:     "admin@cards.com",
				Roles:     []string{"Member", "Admin"},
			},
		}, env.Data[0])
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := &mocks.MockAuthService{Err: &service.Error{
			Kind:    service.KindUnauthenticated,
			Code:    service.CodeInvalidSignIn,
			Message: "Invalid username or password",
		}}
		router, buf := newAuthRouter(t, svc)

		rr := do(t, router, http.MethodPost, "/v1/user/sign-in",
			strings.NewReader(`{"email":"member@cards.com","password":"wrong"}`))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, "CA001", resp.Code)
		assert.Equal(t, "Invalid username or password", resp.Message)
		logger.AssertLogContains(t, buf, `"level":"WARN"`)
	})

	t.Run("validation", func(t *testing.T) {
		svc := &mocks.MockAuthService{SignInFn: func(context.Context, string, string) (*service.SignInResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		}}
		router, _ := newAuthRouter(t, svc)

		rr := do(t, router, http.MethodPost, "/v1/user/sign-in", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "CA004", decodeError(t, rr).Code)

		rr = do(t, router, http.MethodPost, "/v1/user/sign-in", strings.NewReader(`{}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "CA003", decodeError(t, rr).Code)

		rr = do(t, router, http.MethodPost, "/v1/user/sign-in", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "CA003", decodeError(t, rr).Code)
	})
}
