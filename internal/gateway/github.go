// Package gateway provides a gateway to the GitHub API for listing commits,
// abstracting away the underlying REST client.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/ghweekly/ghweekly/internal/domain"
)

// Sentinel errors so callers can classify per-repository failures with
// errors.Is and decide whether to skip, retry, or abort.
var (
	// ErrNotFound indicates the repository does not exist or is not
	// accessible with the supplied credentials (HTTP 404).
	ErrNotFound = errors.New("repository not found")

	// ErrRateLimited indicates the API refused the request due to rate
	// limiting or missing authorization (HTTP 403/429).
	ErrRateLimited = errors.New("rate limited or access denied")
)

// perPage is the fixed page size for commit listing requests. 100 is the
// maximum GitHub allows and minimizes round-trips.
const perPage = 100

// Fetcher defines the behavior of a gateway for fetching commit dates from GitHub.
type Fetcher interface {
	ListCommitDates(ctx context.Context, repo domain.Repo, author string, rng domain.DateRange) ([]time.Time, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token means requests are sent unauthenticated; otherwise the token
// is sent as an Authorization Bearer header on every request. The gateway does
// not retry failed requests itself; the underlying transport only waits out
// GitHub's secondary rate limits.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	httpClient := &http.Client{Transport: rateLimitWaiter}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient.Transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}
	return &GitHubGateway{
		restClient: github.NewClient(httpClient),
		logger:     logger,
	}, nil
}

// ListCommitDates fetches the author dates of all commits by author in repo
// within the inclusive date range, following pagination until exhausted.
// Dates are returned in API order (newest first); downstream aggregation
// buckets by week and does not depend on ordering.
func (g *GitHubGateway) ListCommitDates(ctx context.Context, repo domain.Repo, author string, rng domain.DateRange) ([]time.Time, error) {
	opts := &github.CommitsListOptions{
		Author:      author,
		Since:       rng.Start.UTC(),
		Until:       rng.End.UTC(),
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var dates []time.Time
	for {
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, classifyError(repo, err)
		}
		for _, c := range commits {
			d := c.GetCommit().GetAuthor().GetDate()
			if d.IsZero() {
				continue
			}
			dates = append(dates, d.Time.UTC())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching page %d of commits for %s...", resp.NextPage, repo.FullName())
	}
	g.logger.Printf("Fetched %d commits for %s", len(dates), repo.FullName())
	return dates, nil
}

// classifyError maps go-github errors onto the gateway's error taxonomy,
// always naming the repository that failed.
func classifyError(repo domain.Repo, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%s: %w: %v", repo.FullName(), ErrRateLimited, err)
	}
	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		switch apiErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", repo.FullName(), ErrNotFound)
		case http.StatusForbidden, http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w (HTTP %d)", repo.FullName(), ErrRateLimited, apiErr.Response.StatusCode)
		}
		return fmt.Errorf("%s: GitHub API error (HTTP %d): %w", repo.FullName(), apiErr.Response.StatusCode, err)
	}
	return fmt.Errorf("%s: failed to list commits: %w", repo.FullName(), err)
}
