package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/weekly-commits/internal/domain"
)

// defaultBranchQuery fetches only the name of the repository's default branch ref.
type defaultBranchQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Name githubv4.String
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// GraphQLBranchResolver resolves default branches through the GraphQL API.
type GraphQLBranchResolver struct {
	graphqlClient *githubv4.Client
	logger        *logrus.Entry
}

// NewGraphQLBranchResolver creates a resolver. An empty endpoint uses api.github.com.
func NewGraphQLBranchResolver(httpClient *http.Client, endpoint string, logger *logrus.Logger) *GraphQLBranchResolver {
	client := githubv4.NewClient(httpClient)
	if endpoint != "" {
		client = githubv4.NewEnterpriseClient(endpoint, httpClient)
	}
	return &GraphQLBranchResolver{
		graphqlClient: client,
		logger:        logger.WithField("component", "graphql"),
	}
}

func (r *GraphQLBranchResolver) DefaultBranch(ctx context.Context, fullName string) (string, error) {
	owner, name, err := domain.SplitFullName(fullName)
	if err != nil {
		return "", err
	}
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	var q defaultBranchQuery
	if err := r.graphqlClient.Query(ctx, &q, variables); err != nil {
		r.logger.WithFields(logrus.Fields{"repo": fullName, "endpoint": domain.EndpointRepository}).
			Warnf("Failed to fetch repository info: %v", err)
		return "", &domain.FetchError{
			Endpoint:   domain.EndpointRepository,
			Repository: fullName,
			Err:        fmt.Errorf("failed to execute GraphQL query for default branch: %w", err),
		}
	}
	branch := string(q.Repository.DefaultBranchRef.Name)
	if branch == "" {
		return "", &domain.FetchError{Endpoint: domain.EndpointRepository, Repository: fullName, Err: domain.ErrNoDefaultBranch}
	}
	return branch, nil
}
