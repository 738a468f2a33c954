package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/docduel/docduel/internal/api/response"
	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/extract"
	"github.com/docduel/docduel/internal/models"
)

// DocumentService defines the interface for document creation and ingestion.
type DocumentService interface {
	CreateDocument(ctx context.Context, filename, textContent string) (*models.Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Ingest(ctx context.Context, documentID uuid.UUID) (*models.IngestResult, error)
}

// DocumentsHandler handles HTTP requests for document upload and ingestion.
type DocumentsHandler struct {
	service DocumentService
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(service DocumentService) *DocumentsHandler {
	return &DocumentsHandler{service: service}
}

// DocumentResponse is the document representation returned by the API.
// Extracted text is not echoed back; it can be large.
type DocumentResponse struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	CharCount  int       `json:"char_count"`
	ChunkCount *int      `json:"chunk_count,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

func documentResponse(doc *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:         doc.ID,
		Filename:   doc.Filename,
		CharCount:  doc.CharCount,
		ChunkCount: doc.ChunkCount,
		CreatedAt:  doc.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Upload handles POST /v1/documents. The body is multipart form data with the
// document under the "file" field; text is extracted server-side.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		response.RespondBadRequest(w, "multipart form with a \"file\" field is required")

		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.RespondBadRequest(w, "could not read uploaded file")

		return
	}

	text, err := extract.Text(header.Filename, data)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			response.RespondBadRequest(w, err.Error())

			return
		}

		response.RespondUnprocessableEntity(w, "could not extract text from uploaded file")

		return
	}

	doc, err := h.service.CreateDocument(r.Context(), header.Filename, text)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			response.RespondBadRequest(w, err.Error())

			return
		}

		response.RespondInternalServerError(w, "failed to create document")

		return
	}

	response.RespondJSON(w, http.StatusCreated, documentResponse(doc))
}

// Get handles GET /v1/documents/{id}.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.RespondBadRequest(w, "invalid document id")

		return
	}

	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.RespondNotFound(w, "document not found")

			return
		}

		response.RespondInternalServerError(w, "failed to fetch document")

		return
	}

	response.RespondJSON(w, http.StatusOK, documentResponse(doc))
}

// Ingest handles POST /v1/documents/{id}/ingest.
func (h *DocumentsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.RespondBadRequest(w, "invalid document id")

		return
	}

	result, err := h.service.Ingest(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			response.RespondNotFound(w, "document not found")
		case errors.Is(err, apperrors.ErrValidation):
			response.RespondConflict(w, err.Error())
		case errors.Is(err, apperrors.ErrUpstream):
			response.RespondBadGateway(w, "embedding provider request failed")
		default:
			response.RespondInternalServerError(w, "ingestion failed")
		}

		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
