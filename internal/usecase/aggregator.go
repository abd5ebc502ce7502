// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ghweekly/ghweekly/internal/domain"
	"github.com/ghweekly/ghweekly/internal/gateway"
)

// Aggregator is the use case for building the weekly commit table.
// It orchestrates per-repository fetching and week bucketing.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate fetches the author's commits for each repository in turn and
// buckets them into a zero-filled weekly table spanning rng.
//
// Repositories are fetched sequentially, one pagination chain at a time.
// A repository whose fetch fails is logged with its identifier and skipped;
// its column stays zero-filled and the remaining repositories still
// proceed. Aggregate returns an error only when every requested repository
// failed, wrapping each per-repository failure.
func (a *Aggregator) Aggregate(ctx context.Context, author string, repos []domain.Repo, rng domain.DateRange) (*domain.WeeklyTable, error) {
	a.logger.Printf("Usecase: aggregating commits for %s across %d repositories (%s..%s)",
		author, len(repos), rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))

	table := domain.NewWeeklyTable(rng, repos)
	if len(repos) == 0 {
		return table, nil
	}

	var fetchErrs []error
	for _, repo := range repos {
		dates, err := a.fetcher.ListCommitDates(ctx, repo, author, rng)
		if err != nil {
			a.logger.Printf("Warning: skipping %s: %v", repo.FullName(), err)
			fetchErrs = append(fetchErrs, err)
			continue
		}
		for _, d := range dates {
			table.Add(repo, d)
		}
	}

	if len(fetchErrs) == len(repos) {
		return nil, fmt.Errorf("all %d repositories failed: %w", len(repos), errors.Join(fetchErrs...))
	}
	a.logger.Println("Usecase: aggregation complete.")
	return table, nil
}
