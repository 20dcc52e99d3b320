package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/cards-api/internal/domain"
)

// roleClaimURI is the long-form role claim some identity providers emit.
const roleClaimURI = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

// Actor is the authenticated principal behind a request.
type Actor struct {
	ID      uint64
	IsAdmin bool
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// ActorResolver turns a bearer credential into an Actor. It does not verify
// signatures or expiry; that is the job of the JWTService in front of it.
type ActorResolver struct {
	parser *jwt.Parser
}

// NewActorResolver creates an ActorResolver.
func NewActorResolver() *ActorResolver {
	return &ActorResolver{parser: jwt.NewParser()}
}

// Resolve extracts the actor from credential. An optional "Bearer " prefix is
// accepted. Any failure, including a missing or non-numeric subject, yields
// ErrUnauthenticated.
func (r *ActorResolver) Resolve(credential string) (Actor, error) {
	token := strings.TrimSpace(credential)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return Actor{}, ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	if _, _, err := r.parser.ParseUnverified(token, claims); err != nil {
		return Actor{}, ErrUnauthenticated
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Actor{}, ErrUnauthenticated
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return Actor{}, ErrUnauthenticated
	}

	actor := Actor{ID: id}
	for _, role := range rolesFromClaims(claims) {
		if role == domain.RoleAdmin {
			actor.IsAdmin = true
			break
		}
	}
	return actor, nil
}

// rolesFromClaims collects roles from the "roles", "role" and long-form role
// claims. Each may be a single string or an array.
func rolesFromClaims(claims jwt.MapClaims) []string {
	var roles []string
	for _, key := range []string{"roles", "role", roleClaimURI} {
		switch v := claims[key].(type) {
		case string:
			roles = append(roles, v)
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					roles = append(roles, s)
				}
			}
		}
	}
	return roles
}
