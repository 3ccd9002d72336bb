package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/weekly-commits/internal/domain"
)

func scenarioReport() *domain.Report {
	return &domain.Report{
		User:  "alice",
		Since: "2024-05-06T00:00:00Z",
		Until: "2024-05-12T00:00:00Z",
		Repositories: []domain.RepositoryReport{
			{Repository: "alice/proj-a", Branch: "main", Messages: []string{"fix bug", "add test\n\nCovers the edge case."}},
			{Repository: "alice/proj-b", Branch: "main"},
		},
	}
}

func TestRender_Text(t *testing.T) {
	notFound := errors.New("GET /repos/alice/gone: 404 Not Found []")
	serverErr := errors.New("GET /repos/alice/proj-c/commits: 500 Internal Server Error []")

	testCases := []struct {
		name     string
		report   *domain.Report
		expected string
	}{
		{
			name:   "two repositories, one without messages",
			report: scenarioReport(),
			expected: "Repository: alice/proj-a\n" +
				"  - fix bug\n" +
				"  - add test\n" +
				"Repository: alice/proj-b\n" +
				"No commit messages found or failed to fetch commit messages.\n",
		},
		{
			name:     "no repositories",
			report:   &domain.Report{User: "alice"},
			expected: "No repositories found with commits this week.\n",
		},
		{
			name: "search failure before anything was found",
			report: &domain.Report{
				User:      "alice",
				SearchErr: &domain.FetchError{Endpoint: domain.EndpointCommitSearch, Err: errors.New("401 Bad credentials")},
			},
			expected: "Failed to fetch commits: 401 Bad credentials\n" +
				"No repositories found with commits this week.\n",
		},
		{
			name: "skipped and partially fetched repositories",
			report: &domain.Report{
				User: "alice",
				Repositories: []domain.RepositoryReport{
					{Repository: "alice/gone", Skipped: true, Err: &domain.FetchError{Endpoint: domain.EndpointRepository, Repository: "alice/gone", Err: notFound}},
					{Repository: "alice/proj-c", Branch: "main", Messages: []string{"wip"}, Err: &domain.FetchError{Endpoint: domain.EndpointCommitList, Repository: "alice/proj-c", Err: serverErr}},
				},
			},
			expected: "Repository: alice/gone\n" +
				"Failed to fetch repository info for alice/gone: GET /repos/alice/gone: 404 Not Found []\n" +
				"Could not determine default branch for alice/gone. Skipping.\n" +
				"No commit messages found or failed to fetch commit messages.\n" +
				"Repository: alice/proj-c\n" +
				"Failed to fetch commits for alice/proj-c: GET /repos/alice/proj-c/commits: 500 Internal Server Error []\n" +
				"  - wip\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tc.report, FormatText, false))
			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, scenarioReport(), FormatJSON, true))

	var got jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "alice", got.User)
	require.Len(t, got.Repositories, 2)
	assert.Equal(t, []string{"fix bug", "add test\n\nCovers the edge case."}, got.Repositories[0].Messages)
	assert.Equal(t, []string{}, got.Repositories[1].Messages)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 2, got.Summary.Commits)
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, scenarioReport(), FormatTable, false))

	out := buf.String()
	assert.Contains(t, out, "alice/proj-a")
	assert.Contains(t, out, "alice/proj-b")
	assert.Contains(t, out, "fix bug")
	assert.NotContains(t, out, "Covers the edge case.")
}

func TestSummarize(t *testing.T) {
	report := scenarioReport()
	report.Repositories = append(report.Repositories, domain.RepositoryReport{
		Repository: "alice/proj-c", Messages: []string{"a", "b", "c", "d"},
	})

	s := Summarize(report)

	assert.Equal(t, Summary{Commits: 6, Repositories: 3, Mean: 2, Median: 2}, s)
	assert.Equal(t, "Total: 6 commits in 3 repositories (mean 2.00, median 2.00 per repository)", s.String())
	assert.Equal(t, Summary{}, Summarize(&domain.Report{}))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("table")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
