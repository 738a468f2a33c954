package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/docduel/docduel/internal/models"
)

// ExportCSV writes the complete event log as a sectioned CSV dump for
// offline analysis. The export is never date-filtered.
func (s *StatsService) ExportCSV(ctx context.Context, w io.Writer) error {
	log, err := s.log.ReadEventLog(ctx)
	if err != nil {
		return err
	}

	return writeEventLogCSV(w, log)
}

// writeEventLogCSV renders the five collections as one CSV document, each
// introduced by a marker line and separated by a blank line. Generated
// content is exported as lengths rather than full text to keep the dump
// compact; questions and filenames are included verbatim.
func writeEventLogCSV(w io.Writer, log *models.EventLog) error {
	cw := csv.NewWriter(w)

	cw.Write([]string{"=== DOCUMENTS ==="})
	cw.Write([]string{"id", "filename", "char_count", "chunk_count", "created_at"})
	for _, d := range log.Documents {
		cw.Write([]string{
			d.ID.String(),
			d.Filename,
			strconv.Itoa(d.CharCount),
			csvOptInt(d.ChunkCount),
			csvTime(d.CreatedAt),
		})
	}

	cw.Write([]string{""})
	cw.Write([]string{"=== SUMMARIES ==="})
	cw.Write([]string{"id", "document_id", "model", "content_length", "latency_ms", "input_tokens", "output_tokens", "created_at"})
	for _, s := range log.Summaries {
		cw.Write([]string{
			s.ID.String(),
			s.DocumentID.String(),
			s.Model,
			strconv.Itoa(len(s.Content)),
			strconv.Itoa(s.LatencyMs),
			csvOptInt(s.InputTokens),
			csvOptInt(s.OutputTokens),
			csvTime(s.CreatedAt),
		})
	}

	cw.Write([]string{""})
	cw.Write([]string{"=== QUERIES ==="})
	cw.Write([]string{"id", "document_id", "question", "claude_response_length", "claude_latency_ms", "openai_response_length", "openai_latency_ms", "created_at"})
	for _, q := range log.Queries {
		cw.Write([]string{
			q.ID.String(),
			q.DocumentID.String(),
			q.Question,
			strconv.Itoa(len(q.ClaudeResponse)),
			strconv.Itoa(q.ClaudeLatencyMs),
			strconv.Itoa(len(q.OpenAIResponse)),
			strconv.Itoa(q.OpenAILatencyMs),
			csvTime(q.CreatedAt),
		})
	}

	cw.Write([]string{""})
	cw.Write([]string{"=== FEEDBACK ==="})
	cw.Write([]string{"id", "reference_type", "reference_id", "model", "rating", "created_at"})
	for _, fb := range log.Feedback {
		cw.Write([]string{
			fb.ID.String(),
			fb.ReferenceType,
			fb.ReferenceID.String(),
			fb.Model,
			fb.Rating,
			csvTime(fb.CreatedAt),
		})
	}

	cw.Write([]string{""})
	cw.Write([]string{"=== COMPARISONS ==="})
	cw.Write([]string{"id", "reference_type", "reference_id", "winner", "created_at"})
	for _, c := range log.Comparisons {
		cw.Write([]string{
			c.ID.String(),
			c.ReferenceType,
			c.ReferenceID.String(),
			c.Winner,
			csvTime(c.CreatedAt),
		})
	}

	cw.Flush()

	return cw.Error()
}

func csvOptInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func csvTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
