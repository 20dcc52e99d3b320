package api

import (
	"strconv"
	"time"

	"github.com/phrazzld/cards-api/internal/api/shared"
	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/search"
	"github.com/phrazzld/cards-api/internal/service"
)

// SignInRequest defines the payload for the sign-in endpoint.
type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email,max=150"`
	Password string `json:"password" validate:"required"`
}

// CreateCardRequest defines the payload for creating a card.
// Length and color rules are enforced by the card itself after trimming.
type CreateCardRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// EditCardRequest defines the payload for a partial card update.
// Ids travel as strings because they exceed the JavaScript safe-integer range.
type EditCardRequest struct {
	CardID       string  `json:"card_id"        validate:"required,numeric"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Color        *string `json:"color"`
	CardStatusID *int    `json:"card_status_id"`
}

// ToInput converts the request to the service input. The caller has
// validated CardID.
func (r EditCardRequest) ToInput(id uint64) service.EditCardInput {
	input := service.EditCardInput{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
	}
	if r.CardStatusID != nil {
		status := domain.CardStatusID(*r.CardStatusID)
		input.StatusID = &status
	}
	return input
}

// CardStatusResponse is a status as embedded in cards and listed by
// /v1/card/status.
type CardStatusResponse struct {
	ID     domain.CardStatusID `json:"id"`
	Status string              `json:"status"`
}

// CardResponse is the public representation of a card.
type CardResponse struct {
	CardID       string             `json:"card_id"`
	Name         string             `json:"name"`
	Description  *string            `json:"description"`
	Color        *string            `json:"color"`
	CardStatus   CardStatusResponse `json:"card_status"`
	CreatedByID  string             `json:"created_by_id"`
	ModifiedByID *string            `json:"modified_by_id"`
	CreatedAt    time.Time          `json:"created_at"`
	ModifiedAt   time.Time          `json:"modified_at"`
}

// NewCardResponse maps a domain card to its response shape.
func NewCardResponse(c *domain.Card) CardResponse {
	resp := CardResponse{
		CardID:      strconv.FormatUint(c.ID, 10),
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CardStatus: CardStatusResponse{
			ID:     c.StatusID,
			Status: c.StatusID.String(),
		},
		CreatedByID: strconv.FormatUint(c.CreatedByID, 10),
		CreatedAt:   c.CreatedAt,
		ModifiedAt:  c.ModifiedAt,
	}
	if c.ModifiedByID != nil {
		id := strconv.FormatUint(*c.ModifiedByID, 10)
		resp.ModifiedByID = &id
	}
	return resp
}

// NewCardResponses maps a list of cards; the result is never nil.
func NewCardResponses(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, NewCardResponse(c))
	}
	return out
}

// NewCardStatusResponses maps persisted statuses to their response shape.
func NewCardStatusResponses(statuses []domain.CardStatus) []CardStatusResponse {
	out := make([]CardStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, CardStatusResponse{ID: s.ID, Status: s.Name})
	}
	return out
}

// NewPagination maps a search page to the envelope's pagination block.
func NewPagination(p search.Page) shared.Pagination {
	return shared.Pagination{
		Page:            p.Page,
		PageSize:        p.PageSize,
		TotalCount:      p.TotalCount,
		TotalPages:      p.TotalPages,
		HasNextPage:     p.HasNextPage,
		HasPreviousPage: p.HasPreviousPage,
	}
}

// UserResponse is the public representation of a signed-in user.
type UserResponse struct {
	UserID    string   `json:"user_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// SignInResponse defines the successful response for the sign-in endpoint.
type SignInResponse struct {
	AccessToken string `json:"access_token"`
	// Expires is the token expiry as Unix seconds.
	Expires int64 `json:"expires"`
	// ExpiresAt is the same instant in RFC 3339.
	ExpiresAt string       `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewSignInResponse maps a sign-in result to its response shape.
func NewSignInResponse(r *service.SignInResult) SignInResponse {
	roles := r.User.Roles
	if roles == nil {
		roles = []string{}
	}
	return SignInResponse{
		AccessToken: r.Token,
		Expires:     r.ExpiresAt.Unix(),
		ExpiresAt:   r.ExpiresAt.UTC().Format(time.RFC3339),
		User: UserResponse{
			UserID:    strconv.FormatUint(r.User.ID, 10),
			FirstName: r.User.FirstName,
			LastName:  r.User.LastName,
			Email:     r.User.Email,
			Roles:     roles,
		},
	}
}
