package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cards-api/internal/api/shared"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
	errorOpts   []shared.ResponseOption
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	authService service.AuthService,
	logger *slog.Logger,
	exposeDetails bool,
) *AuthHandler {
	if authService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("authService cannot be nil for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService: authService,
		logger:      logger.With(slog.String("component", "auth_handler")),
		errorOpts:   []shared.ResponseOption{shared.WithDetail(exposeDetails)},
	}
}

// SignIn handles POST /v1/user/sign-in requests.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SignInRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, h.errorOpts...)
		return
	}

	result, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		opts := append([]shared.ResponseOption{shared.WithElevatedLogLevel()}, h.errorOpts...)
		HandleAPIError(w, r, err, opts...)
		return
	}

	log.Debug("sign-in succeeded", slog.Uint64("user_id", result.User.ID))
	shared.RespondWithData(w, r, http.StatusOK, []SignInResponse{NewSignInResponse(result)})
}
