package models

import (
	"time"

	"github.com/google/uuid"
)

// Reference types for votes: the logical object a vote attaches to.
const (
	ReferenceSummary = "summary"
	ReferenceQuery   = "query"
)

// ValidReferenceType reports whether s is a known vote reference type.
func ValidReferenceType(s string) bool {
	return s == ReferenceSummary || s == ReferenceQuery
}

// Feedback ratings.
const (
	RatingUp   = "up"
	RatingDown = "down"
)

// Comparison winner values. WinnerTie is valid only for comparisons.
const WinnerTie = "tie"

// Feedback is an absolute-quality vote on one provider's response in
// isolation. At most one row exists per (reference_type, reference_id, model);
// resubmission updates the rating in place.
type Feedback struct {
	ID            uuid.UUID `json:"id"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   uuid.UUID `json:"reference_id"`
	Model         string    `json:"model"`
	Rating        string    `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Comparison is a head-to-head vote over both providers' responses for the
// same reference. At most one row exists per (reference_type, reference_id);
// resubmission updates the winner in place.
type Comparison struct {
	ID            uuid.UUID `json:"id"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   uuid.UUID `json:"reference_id"`
	Winner        string    `json:"winner"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SubmitFeedbackRequest is the payload for a thumbs vote.
type SubmitFeedbackRequest struct {
	ReferenceType string    `json:"reference_type"`
	ReferenceID   uuid.UUID `json:"reference_id"`
	Model         string    `json:"model"`
	Rating        string    `json:"rating"`
}

// SubmitComparisonRequest is the payload for a pairwise vote.
type SubmitComparisonRequest struct {
	ReferenceType string    `json:"reference_type"`
	ReferenceID   uuid.UUID `json:"reference_id"`
	Winner        string    `json:"winner"`
}
