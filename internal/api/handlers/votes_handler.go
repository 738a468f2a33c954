package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docduel/docduel/internal/api/response"
	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
)

// VotingService defines the interface for recording human votes.
type VotingService interface {
	SubmitFeedback(ctx context.Context, req *models.SubmitFeedbackRequest) (*models.Feedback, error)
	SubmitComparison(ctx context.Context, req *models.SubmitComparisonRequest) (*models.Comparison, error)
}

// VotesHandler handles HTTP requests for thumbs feedback and pairwise comparisons.
type VotesHandler struct {
	service VotingService
}

// NewVotesHandler creates a new votes handler.
func NewVotesHandler(service VotingService) *VotesHandler {
	return &VotesHandler{service: service}
}

// SubmitFeedback handles POST /v1/feedback. Resubmitting for the same
// (reference, model) updates the stored rating.
func (h *VotesHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitFeedbackRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	fb, err := h.service.SubmitFeedback(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			response.RespondBadRequest(w, err.Error())
		case errors.Is(err, apperrors.ErrNotFound):
			response.RespondNotFound(w, err.Error())
		default:
			response.RespondInternalServerError(w, "failed to record feedback")
		}

		return
	}

	response.RespondJSON(w, http.StatusCreated, fb)
}

// SubmitComparison handles POST /v1/comparisons. Resubmitting for the same
// reference replaces the stored winner.
func (h *VotesHandler) SubmitComparison(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitComparisonRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	cmp, err := h.service.SubmitComparison(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			response.RespondBadRequest(w, err.Error())
		case errors.Is(err, apperrors.ErrNotFound):
			response.RespondNotFound(w, err.Error())
		default:
			response.RespondInternalServerError(w, "failed to record comparison")
		}

		return
	}

	response.RespondJSON(w, http.StatusCreated, cmp)
}
