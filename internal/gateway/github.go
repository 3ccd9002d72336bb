// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/weekly-commits/internal/domain"
	"github.com/naka-gawa/weekly-commits/internal/pagination"
)

const (
	searchPageSize = 100
	commitPageSize = 50
)

// Fetcher defines the paginated GitHub reads the weekly report needs.
type Fetcher interface {
	// SearchCommitRepositories returns the distinct repositories the user
	// committed to after since, in discovery order.
	SearchCommitRepositories(ctx context.Context, user string, since time.Time) domain.Result[string]
	// ListCommitMessages returns the messages of commits on branch between since and until, newest first.
	ListCommitMessages(ctx context.Context, fullName, branch string, since, until time.Time) domain.Result[string]
}

// BranchResolver looks up a repository's default branch.
type BranchResolver interface {
	DefaultBranch(ctx context.Context, fullName string) (string, error)
}

// GitHubGateway is the REST implementation of Fetcher and BranchResolver.
type GitHubGateway struct {
	restClient *github.Client
	maxPages   int
	logger     *logrus.Entry
}

// NewGitHubGateway creates a GitHubGateway talking to baseURL through httpClient.
// An empty baseURL keeps the public api.github.com endpoint.
func NewGitHubGateway(httpClient *http.Client, baseURL string, maxPages int, logger *logrus.Logger) (*GitHubGateway, error) {
	restClient := github.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse API base URL: %w", err)
		}
		restClient.BaseURL = u
	}
	return &GitHubGateway{
		restClient: restClient,
		maxPages:   maxPages,
		logger:     logger.WithField("component", "gateway"),
	}, nil
}

// SearchCommitRepositories searches commits authored by user with a committer date after since
// and collects the repositories they belong to. Only the lower bound is applied here; the
// per-repository listing narrows the results to the exact window.
func (g *GitHubGateway) SearchCommitRepositories(ctx context.Context, user string, since time.Time) domain.Result[string] {
	query := fmt.Sprintf("author:%s committer-date:>%s", user, domain.FormatTimestamp(since))
	g.logger.WithField("query", query).Debug("Searching commits...")
	opts := &github.SearchOptions{
		Sort:        "committer-date",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: searchPageSize},
	}

	repos := domain.NewRepositorySet()
	fetch := func(ctx context.Context, page int) ([]string, int, error) {
		opts.Page = page
		result, resp, err := g.restClient.Search.Commits(ctx, query, opts)
		if err != nil {
			return nil, 0, err
		}
		var names []string
		for _, commit := range result.Commits {
			if name := commit.GetRepository().GetFullName(); repos.Add(name) {
				names = append(names, name)
			}
		}
		if resp.NextPage != 0 {
			g.logger.Debug("  Fetching next page of commit search results...")
		}
		return names, resp.NextPage, nil
	}

	result := pagination.Collect(ctx, g.maxPages, fetch)
	if result.Err != nil {
		result.Err = &domain.FetchError{Endpoint: domain.EndpointCommitSearch, Err: result.Err}
		g.logger.WithField("endpoint", domain.EndpointCommitSearch).Warnf("Failed to fetch commits: %v", result.Err)
	}
	g.logger.Debugf("Found %d repositories.", repos.Len())
	return result
}

// DefaultBranch returns the default branch of the repository fullName ("owner/name").
func (g *GitHubGateway) DefaultBranch(ctx context.Context, fullName string) (string, error) {
	owner, name, err := domain.SplitFullName(fullName)
	if err != nil {
		return "", err
	}
	repo, _, err := g.restClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		g.logger.WithFields(logrus.Fields{"repo": fullName, "endpoint": domain.EndpointRepository}).
			Warnf("Failed to fetch repository info: %v", err)
		return "", &domain.FetchError{Endpoint: domain.EndpointRepository, Repository: fullName, Err: err}
	}
	branch := repo.GetDefaultBranch()
	if branch == "" {
		return "", &domain.FetchError{Endpoint: domain.EndpointRepository, Repository: fullName, Err: domain.ErrNoDefaultBranch}
	}
	return branch, nil
}

// ListCommitMessages lists the commits on branch whose dates fall between since and until.
func (g *GitHubGateway) ListCommitMessages(ctx context.Context, fullName, branch string, since, until time.Time) domain.Result[string] {
	log := g.logger.WithField("repo", fullName)
	owner, name, err := domain.SplitFullName(fullName)
	if err != nil {
		return domain.PartiallyFailed[string](nil, err)
	}
	log.WithField("branch", branch).Debug("Listing commits...")
	// The bounds are formatted here rather than through CommitsListOptions so that
	// they match the search qualifier, fractional seconds included.
	params := url.Values{}
	params.Set("sha", branch)
	params.Set("since", domain.FormatTimestamp(since))
	params.Set("until", domain.FormatTimestamp(until))
	params.Set("per_page", strconv.Itoa(commitPageSize))
	path := fmt.Sprintf("repos/%s/%s/commits", url.PathEscape(owner), url.PathEscape(name))

	fetch := func(ctx context.Context, page int) ([]string, int, error) {
		if page > 0 {
			params.Set("page", strconv.Itoa(page))
		}
		req, err := g.restClient.NewRequest(http.MethodGet, path+"?"+params.Encode(), nil)
		if err != nil {
			return nil, 0, err
		}
		var commits []*github.RepositoryCommit
		resp, err := g.restClient.Do(ctx, req, &commits)
		if err != nil {
			return nil, 0, err
		}
		messages := make([]string, 0, len(commits))
		for _, c := range commits {
			messages = append(messages, c.GetCommit().GetMessage())
		}
		return messages, resp.NextPage, nil
	}

	result := pagination.Collect(ctx, g.maxPages, fetch)
	if result.Err != nil {
		result.Err = &domain.FetchError{Endpoint: domain.EndpointCommitList, Repository: fullName, Err: result.Err}
		log.WithField("endpoint", domain.EndpointCommitList).Warnf("Failed to fetch commits: %v", result.Err)
	}
	return result
}
