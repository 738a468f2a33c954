package repository

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/docduel/docduel/internal/models"
)

// StatsRepository reads the full event log for aggregation. It composes the
// per-table repositories rather than duplicating their queries.
type StatsRepository struct {
	documents *DocumentsRepository
	summaries *SummariesRepository
	queries   *QueriesRepository
	votes     *VotesRepository
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(
	documents *DocumentsRepository,
	summaries *SummariesRepository,
	queries *QueriesRepository,
	votes *VotesRepository,
) *StatsRepository {
	return &StatsRepository{
		documents: documents,
		summaries: summaries,
		queries:   queries,
		votes:     votes,
	}
}

// ReadEventLog fetches all five collections concurrently. Document text is
// not needed for aggregation; the documents list omits it.
func (r *StatsRepository) ReadEventLog(ctx context.Context) (*models.EventLog, error) {
	var log models.EventLog

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		log.Documents, err = r.documents.List(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		log.Summaries, err = r.summaries.List(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		log.Queries, err = r.queries.List(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		log.Feedback, err = r.votes.ListFeedback(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		log.Comparisons, err = r.votes.ListComparisons(ctx)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &log, nil
}
