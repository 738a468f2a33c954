package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docduel/docduel/internal/retrieval"
)

// System prompts sent identically to both providers.
const (
	summarySystemPrompt = `You are a document summarizer. Provide a concise summary of the document followed by key bullet points. Format your response as:

**Summary**
[2-3 paragraph summary]

**Key Points**
• [point 1]
• [point 2]
• [point 3]
...`

	querySystemPrompt = `You are a helpful assistant answering questions about a document. Use the provided context to answer the question accurately. If the context doesn't contain enough information to answer, say so.`
)

// maxSummaryInputChars caps how much document text is sent for summarization.
// Longer documents are truncated from the end; the truncation is recorded on
// the stored summaries for observability but doesn't change the contract.
const maxSummaryInputChars = 100_000

// defaultMaxTokens bounds each provider's generated output.
const defaultMaxTokens = 1024

// buildSummaryPrompt returns the user prompt for whole-document summarization
// and whether the document text was truncated to fit the input cap. The cap
// is measured in runes so truncation never cuts a multi-byte character in half.
func buildSummaryPrompt(text string) (prompt string, truncated bool) {
	truncated = utf8.RuneCountInString(text) > maxSummaryInputChars
	if truncated {
		text = string([]rune(text)[:maxSummaryInputChars])
	}

	return fmt.Sprintf("Please summarize this document:\n\n%s", text), truncated
}

// buildQueryPrompt assembles the RAG user prompt: the retrieved chunks as a
// numbered, double-newline-separated context block followed by the question.
func buildQueryPrompt(chunks []retrieval.Scored, question string) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[%d] %s", i+1, c.Text)
	}

	return fmt.Sprintf("Context from the document:\n%s\n\nQuestion: %s\n\nPlease answer based on the context provided.",
		strings.Join(parts, "\n\n"), question)
}
