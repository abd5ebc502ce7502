package usecase

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/ghweekly/ghweekly/internal/domain"
)

// RepoSummary holds aggregate statistics for one repository column.
type RepoSummary struct {
	Repo       domain.Repo
	Total      int
	WeeklyMean float64
	Peak       int
	PeakWeek   time.Time
}

// Summarize computes per-repository totals, the mean weekly commit count,
// and the peak week for each column of the table, preserving column order.
// An empty table yields no summaries.
func Summarize(table *domain.WeeklyTable) []RepoSummary {
	if table.Empty() {
		return nil
	}
	weeks := table.Weeks()
	summaries := make([]RepoSummary, 0, len(table.Repos()))
	for col, repo := range table.Repos() {
		counts := table.Column(col)
		data := make(stats.Float64Data, len(counts))
		total := 0
		peakRow := 0
		for row, c := range counts {
			data[row] = float64(c)
			total += c
			if c > counts[peakRow] {
				peakRow = row
			}
		}
		mean, _ := stats.Mean(data)
		summaries = append(summaries, RepoSummary{
			Repo:       repo,
			Total:      total,
			WeeklyMean: mean,
			Peak:       counts[peakRow],
			PeakWeek:   weeks[peakRow],
		})
	}
	return summaries
}
