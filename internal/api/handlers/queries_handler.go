package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/docduel/docduel/internal/api/response"
	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
)

// QuestionService defines the interface for retrieval-augmented question answering.
type QuestionService interface {
	Ask(ctx context.Context, documentID uuid.UUID, question string) (*models.Query, error)
}

// QueriesHandler handles HTTP requests for document questions.
type QueriesHandler struct {
	service QuestionService
}

// NewQueriesHandler creates a new queries handler.
func NewQueriesHandler(service QuestionService) *QueriesHandler {
	return &QueriesHandler{service: service}
}

// AskRequest is the body for POST /v1/documents/{id}/query.
type AskRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /v1/documents/{id}/query.
func (h *QueriesHandler) Ask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.RespondBadRequest(w, "invalid document id")

		return
	}

	var req AskRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	query, err := h.service.Ask(r.Context(), id, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			response.RespondBadRequest(w, err.Error())
		case errors.Is(err, apperrors.ErrNotFound):
			response.RespondNotFound(w, "document not found")
		case errors.Is(err, apperrors.ErrNotProcessed):
			response.RespondConflict(w, err.Error())
		case errors.Is(err, apperrors.ErrUpstream):
			response.RespondBadGateway(w, "provider request failed")
		default:
			response.RespondInternalServerError(w, "query failed")
		}

		return
	}

	response.RespondJSON(w, http.StatusOK, query)
}
