// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/weekly-commits/internal/domain"
	"github.com/naka-gawa/weekly-commits/internal/gateway"
)

// Request holds the per-run inputs of the weekly report.
type Request struct {
	User string
	// Branch is only used when it matches the repository's default branch.
	Branch        string
	TimestampMode domain.TimestampMode
}

// Reporter is the use case that builds the weekly commit report.
// Repositories are discovered first, then processed one at a time in discovery order.
type Reporter struct {
	fetcher  gateway.Fetcher
	resolver gateway.BranchResolver
	logger   *logrus.Entry
	now      func() time.Time
}

// Option customizes a Reporter.
type Option func(*Reporter)

// WithClock replaces time.Now as the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// NewReporter creates a new Reporter instance.
func NewReporter(fetcher gateway.Fetcher, resolver gateway.BranchResolver, logger *logrus.Logger, opts ...Option) *Reporter {
	r := &Reporter{
		fetcher:  fetcher,
		resolver: resolver,
		logger:   logger.WithField("component", "reporter"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run builds the report for the week containing the current instant.
// Fetch failures never abort the run; they are recorded on the affected entries.
func (r *Reporter) Run(ctx context.Context, req Request) *domain.Report {
	window := domain.WeekOf(r.now())
	since, until := window.Bounds(req.TimestampMode)
	report := &domain.Report{
		User:  req.User,
		Since: domain.FormatTimestamp(since),
		Until: domain.FormatTimestamp(until),
	}
	r.logger.Debugf("Usecase: Reporting commits by %s between %s and %s...", req.User, report.Since, report.Until)

	repos := r.fetcher.SearchCommitRepositories(ctx, req.User, since)
	report.SearchErr = repos.Err
	if len(repos.Items) == 0 {
		r.logger.Debug("Usecase: No repositories found.")
		return report
	}

	report.Repositories = make([]domain.RepositoryReport, 0, len(repos.Items))
	for i, repo := range repos.Items {
		r.logger.Debugf("[%d/%d] %s", i+1, len(repos.Items), repo)
		report.Repositories = append(report.Repositories, r.fetchMessages(ctx, repo, req.Branch, since, until))
	}
	r.logger.Debug("Usecase: Report complete.")
	return report
}

// fetchMessages lists the window's commit messages on the repository's default branch.
// The branch hint is kept only when it already is the default branch.
func (r *Reporter) fetchMessages(ctx context.Context, repo, branch string, since, until time.Time) domain.RepositoryReport {
	defaultBranch, err := r.resolver.DefaultBranch(ctx, repo)
	if err != nil {
		r.logger.WithField("repo", repo).Warnf("Could not determine default branch for %s. Skipping.", repo)
		return domain.RepositoryReport{Repository: repo, Skipped: true, Err: err}
	}
	if branch != defaultBranch {
		branch = defaultBranch
	}

	result := r.fetcher.ListCommitMessages(ctx, repo, branch, since, until)
	return domain.RepositoryReport{
		Repository: repo,
		Branch:     branch,
		Messages:   result.Items,
		Err:        result.Err,
	}
}
