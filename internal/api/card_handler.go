package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/cards-api/internal/api/shared"
	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/search"
	"github.com/phrazzld/cards-api/internal/service"
)

// Search query parameters.
const (
	querySearchTerm = "searchTerm"
	querySortColumn = "sortColumn"
	querySortOrder  = "sortOrder"
	queryPage       = "page"
	queryPageSize   = "pageSize"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
	errorOpts   []shared.ResponseOption
}

// NewCardHandler creates a new CardHandler. With exposeDetails set, error
// responses carry the underlying error.
func NewCardHandler(
	cardService service.CardService,
	logger *slog.Logger,
	exposeDetails bool,
) *CardHandler {
	if cardService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
		errorOpts:   []shared.ResponseOption{shared.WithDetail(exposeDetails)},
	}
}

func (h *CardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	HandleAPIError(w, r, err, h.errorOpts...)
}

func (h *CardHandler) respondWithCard(w http.ResponseWriter, r *http.Request, status int, card *domain.Card) {
	shared.RespondWithData(w, r, status, []CardResponse{NewCardResponse(card)})
}

// CreateCard handles POST /v1/card/create requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	card, err := h.cardService.Create(r.Context(), service.CreateCardInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	log.Debug("card created", slog.Uint64("card_id", card.ID))
	h.respondWithCard(w, r, http.StatusCreated, card)
}

// GetCard handles GET /v1/card/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := getPathCardID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	card, err := h.cardService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondWithCard(w, r, http.StatusOK, card)
}

// EditCard handles PATCH /v1/card/edit requests. Only the fields present in
// the body change.
func (h *CardHandler) EditCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req EditCardRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := parseCardID("CardId", req.CardID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	card, err := h.cardService.Edit(r.Context(), req.ToInput(id))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	log.Debug("card edited", slog.Uint64("card_id", card.ID))
	h.respondWithCard(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /v1/card/{id} requests and returns the removed
// card.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathCardID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	card, err := h.cardService.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	log.Debug("card deleted", slog.Uint64("card_id", id))
	h.respondWithCard(w, r, http.StatusOK, card)
}

// SearchCards handles GET /v1/card/search requests.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(q.Get(queryPage), queryPage)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	pageSize, err := queryInt(q.Get(queryPageSize), queryPageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.cardService.Search(r.Context(), search.Params{
		SearchTerm: q.Get(querySearchTerm),
		SortColumn: q.Get(querySortColumn),
		SortOrder:  q.Get(querySortOrder),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	shared.RespondWithPage(w, r, NewCardResponses(result.Items), NewPagination(result))
}

// ListStatuses handles GET /v1/card/status requests.
func (h *CardHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.cardService.ListStatuses(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewCardStatusResponses(statuses))
}

// queryInt parses an optional integer query parameter. Absent means 0, which
// the search treats as the default.
func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.Error{
			Kind:    service.KindValidation,
			Code:    service.CodeInvalidValue,
			Message: name + " must be a number",
			Err:     err,
		}
	}
	return n, nil
}
