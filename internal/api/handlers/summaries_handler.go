package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/docduel/docduel/internal/api/response"
	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/service"
)

// SummarizerService defines the interface for dual-provider summarization.
type SummarizerService interface {
	Summarize(ctx context.Context, documentID uuid.UUID) (*service.SummaryPair, error)
	GetSummaries(ctx context.Context, documentID uuid.UUID) (*service.SummaryPair, error)
}

// SummariesHandler handles HTTP requests for document summaries.
type SummariesHandler struct {
	service SummarizerService
}

// NewSummariesHandler creates a new summaries handler.
func NewSummariesHandler(service SummarizerService) *SummariesHandler {
	return &SummariesHandler{service: service}
}

// Summarize handles POST /v1/documents/{id}/summarize. Repeat calls for a
// document with a stored pair return it without regenerating.
func (h *SummariesHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.RespondBadRequest(w, "invalid document id")

		return
	}

	pair, err := h.service.Summarize(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			response.RespondNotFound(w, "document not found")
		case errors.Is(err, apperrors.ErrUpstream):
			response.RespondBadGateway(w, "provider request failed")
		default:
			response.RespondInternalServerError(w, "summarization failed")
		}

		return
	}

	response.RespondJSON(w, http.StatusOK, pair)
}

// Get handles GET /v1/documents/{id}/summaries.
func (h *SummariesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.RespondBadRequest(w, "invalid document id")

		return
	}

	pair, err := h.service.GetSummaries(r.Context(), id)
	if err != nil {
		response.RespondInternalServerError(w, "failed to fetch summaries")

		return
	}

	response.RespondJSON(w, http.StatusOK, pair)
}
