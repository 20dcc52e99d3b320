package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/cards-api/internal/api/shared"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/service"
	"github.com/phrazzld/cards-api/internal/service/auth"
)

const unauthenticatedMessage = "User must be logged in to complete request"

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	resolver   *auth.ActorResolver
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, resolver *auth.ActorResolver) *AuthMiddleware {
	if resolver == nil {
		resolver = auth.NewActorResolver()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		resolver:   resolver,
	}
}

// Authenticate verifies the bearer token from the Authorization header,
// resolves the actor once and stores it in the request context. Handlers
// downstream read it with auth.ActorFromContext.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthenticated(w, r, auth.ErrMissingToken)
			return
		}

		if _, err := m.jwtService.ValidateToken(r.Context(), token); err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken),
				errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingToken):
				unauthenticated(w, r, err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					service.CodeUnhandled, shared.GenericErrorMessage, err)
			}
			return
		}

		actor, err := m.resolver.Resolve(token)
		if err != nil {
			unauthenticated(w, r, err)
			return
		}

		ctx := auth.WithActor(r.Context(), actor)
		log := logger.FromContextOrDefault(ctx, slog.Default()).With(
			slog.Uint64("actor_id", actor.ID),
			slog.Bool("actor_admin", actor.IsAdmin))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
		service.CodeUnauthenticated, unauthenticatedMessage, err)
}
