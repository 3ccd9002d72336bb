// Package render writes a weekly commit report in one of the supported output formats.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/naka-gawa/weekly-commits/internal/domain"
)

// Format is an output format name.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatTable, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, table or json)", s)
}

const (
	noRepositoriesLine = "No repositories found with commits this week."
	noMessagesLine     = "No commit messages found or failed to fetch commit messages."
)

// Render writes report to w. When summary is set, totals are appended.
func Render(w io.Writer, report *domain.Report, format Format, summary bool) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, report, summary)
	case FormatTable:
		renderTable(w, report)
	default:
		renderText(w, report)
	}
	if summary {
		fmt.Fprintln(w, Summarize(report))
	}
	return nil
}

func renderText(w io.Writer, report *domain.Report) {
	if report.SearchErr != nil {
		fmt.Fprintf(w, "Failed to fetch commits: %v\n", cause(report.SearchErr))
	}
	if len(report.Repositories) == 0 {
		fmt.Fprintln(w, noRepositoriesLine)
		return
	}
	for _, repo := range report.Repositories {
		fmt.Fprintf(w, "Repository: %s\n", repo.Repository)
		switch {
		case repo.Skipped:
			fmt.Fprintf(w, "Failed to fetch repository info for %s: %v\n", repo.Repository, cause(repo.Err))
			fmt.Fprintf(w, "Could not determine default branch for %s. Skipping.\n", repo.Repository)
		case repo.Err != nil:
			fmt.Fprintf(w, "Failed to fetch commits for %s: %v\n", repo.Repository, cause(repo.Err))
		}
		if len(repo.Messages) == 0 {
			fmt.Fprintln(w, noMessagesLine)
			continue
		}
		for _, msg := range repo.Messages {
			fmt.Fprintf(w, "  - %s\n", subject(msg))
		}
	}
}

func renderTable(w io.Writer, report *domain.Report) {
	if report.SearchErr != nil {
		fmt.Fprintf(w, "Failed to fetch commits: %v\n", cause(report.SearchErr))
	}
	if len(report.Repositories) == 0 {
		fmt.Fprintln(w, noRepositoriesLine)
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Repository", "Branch", "Commits", "Latest", "Status"})
	for _, repo := range report.Repositories {
		latest := ""
		if len(repo.Messages) > 0 {
			latest = subject(repo.Messages[0])
		}
		table.Append([]string{repo.Repository, repo.Branch, strconv.Itoa(len(repo.Messages)), latest, status(repo)})
	}
	table.Render()
}

func status(repo domain.RepositoryReport) string {
	switch {
	case repo.Skipped:
		return "skipped"
	case repo.Err != nil:
		return "partial"
	}
	return "ok"
}

type jsonRepository struct {
	Repository string   `json:"repository"`
	Branch     string   `json:"branch,omitempty"`
	Messages   []string `json:"messages"`
	Skipped    bool     `json:"skipped,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type jsonReport struct {
	User         string           `json:"user"`
	Since        string           `json:"since"`
	Until        string           `json:"until"`
	SearchError  string           `json:"search_error,omitempty"`
	Repositories []jsonRepository `json:"repositories"`
	Summary      *Summary         `json:"summary,omitempty"`
}

func renderJSON(w io.Writer, report *domain.Report, summary bool) error {
	out := jsonReport{
		User:         report.User,
		Since:        report.Since,
		Until:        report.Until,
		SearchError:  errString(report.SearchErr),
		Repositories: make([]jsonRepository, 0, len(report.Repositories)),
	}
	for _, repo := range report.Repositories {
		messages := repo.Messages
		if messages == nil {
			messages = []string{}
		}
		out.Repositories = append(out.Repositories, jsonRepository{
			Repository: repo.Repository,
			Branch:     repo.Branch,
			Messages:   messages,
			Skipped:    repo.Skipped,
			Error:      errString(repo.Err),
		})
	}
	if summary {
		s := Summarize(report)
		out.Summary = &s
	}
	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// Summary holds totals over the reported repositories.
type Summary struct {
	Commits      int     `json:"commits"`
	Repositories int     `json:"repositories"`
	Mean         float64 `json:"mean_per_repository"`
	Median       float64 `json:"median_per_repository"`
}

// Summarize computes commit totals and per-repository averages.
func Summarize(report *domain.Report) Summary {
	s := Summary{Commits: report.CommitCount(), Repositories: len(report.Repositories)}
	if s.Repositories == 0 {
		return s
	}
	counts := make(stats.Float64Data, 0, s.Repositories)
	for _, repo := range report.Repositories {
		counts = append(counts, float64(len(repo.Messages)))
	}
	// Both only fail on empty input.
	s.Mean, _ = stats.Mean(counts)
	s.Median, _ = stats.Median(counts)
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("Total: %d commits in %d repositories (mean %.2f, median %.2f per repository)",
		s.Commits, s.Repositories, s.Mean, s.Median)
}

// subject returns the first line of a commit message.
func subject(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimRight(line, "\r")
}

// cause strips the endpoint prefix a FetchError adds, since the report line already names it.
func cause(err error) error {
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Err
	}
	return err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
