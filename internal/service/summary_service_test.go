package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/docduel/docduel/internal/errors"
	"github.com/docduel/docduel/internal/models"
)

func newTestDual(claudeText, openaiText string) *DualGenerator {
	return NewDualGenerator(
		&fakeProvider{name: models.ProviderClaude, text: claudeText},
		&fakeProvider{name: models.ProviderOpenAI, text: openaiText},
		0,
	)
}

func TestSummaryService_Summarize(t *testing.T) {
	docs := newFakeDocumentsRepo()
	summaries := &fakeSummariesRepo{}
	svc := NewSummaryService(docs, summaries, newTestDual("claude summary", "openai summary"), nil)

	doc := docs.add(&models.Document{Filename: "a.txt", TextContent: "document body", CharCount: 13})

	pair, err := svc.Summarize(context.Background(), doc.ID)
	require.NoError(t, err)

	require.NotNil(t, pair.Claude)
	require.NotNil(t, pair.OpenAI)
	assert.Equal(t, "claude summary", pair.Claude.Content)
	assert.Equal(t, "openai summary", pair.OpenAI.Content)
	assert.Equal(t, models.ProviderClaude, pair.Claude.Model)
	assert.Equal(t, models.ProviderOpenAI, pair.OpenAI.Model)
	assert.False(t, pair.Claude.Truncated)

	require.NotNil(t, pair.Claude.InputTokens)
	assert.Equal(t, 10, *pair.Claude.InputTokens)
	require.NotNil(t, pair.OpenAI.OutputTokens)
	assert.Equal(t, 20, *pair.OpenAI.OutputTokens)
}

func TestSummaryService_Summarize_ReturnsExistingPair(t *testing.T) {
	docs := newFakeDocumentsRepo()
	summaries := &fakeSummariesRepo{}
	svc := NewSummaryService(docs, summaries, newTestDual("first claude", "first openai"), nil)

	doc := docs.add(&models.Document{Filename: "a.txt", TextContent: "document body", CharCount: 13})

	first, err := svc.Summarize(context.Background(), doc.ID)
	require.NoError(t, err)

	second, err := svc.Summarize(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Claude.ID, second.Claude.ID)
	assert.Equal(t, first.OpenAI.ID, second.OpenAI.ID)
	// No extra rows were written.
	rows, err := summaries.ListByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSummaryService_Summarize_TruncatesLongDocuments(t *testing.T) {
	docs := newFakeDocumentsRepo()
	summaries := &fakeSummariesRepo{}
	svc := NewSummaryService(docs, summaries, newTestDual("c", "o"), nil)

	long := strings.Repeat("x", maxSummaryInputChars+500)
	doc := docs.add(&models.Document{Filename: "big.txt", TextContent: long, CharCount: len(long)})

	pair, err := svc.Summarize(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.True(t, pair.Claude.Truncated)
	assert.True(t, pair.OpenAI.Truncated)
}

func TestSummaryService_Summarize_ProviderFailure(t *testing.T) {
	docs := newFakeDocumentsRepo()
	summaries := &fakeSummariesRepo{}
	dual := NewDualGenerator(
		&fakeProvider{name: models.ProviderClaude, err: assert.AnError},
		&fakeProvider{name: models.ProviderOpenAI, text: "fine"},
		0,
	)
	svc := NewSummaryService(docs, summaries, dual, nil)

	doc := docs.add(&models.Document{Filename: "a.txt", TextContent: "body", CharCount: 4})

	_, err := svc.Summarize(context.Background(), doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	// Nothing persisted on failure.
	rows, listErr := summaries.ListByDocument(context.Background(), doc.ID)
	require.NoError(t, listErr)
	assert.Empty(t, rows)
}

func TestSummaryService_GetSummaries_PartialPair(t *testing.T) {
	docs := newFakeDocumentsRepo()
	summaries := &fakeSummariesRepo{}
	svc := NewSummaryService(docs, summaries, newTestDual("c", "o"), nil)

	doc := docs.add(&models.Document{Filename: "a.txt", TextContent: "body", CharCount: 4})
	_, err := summaries.Insert(context.Background(), &models.Summary{
		DocumentID: doc.ID,
		Model:      models.ProviderClaude,
		Content:    "only claude",
	})
	require.NoError(t, err)

	pair, err := svc.GetSummaries(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, pair.Claude)
	assert.Nil(t, pair.OpenAI)
}
