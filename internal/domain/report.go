package domain

// RepositoryReport holds the commit messages found for one repository.
type RepositoryReport struct {
	Repository string   `json:"repository"`
	Branch     string   `json:"branch,omitempty"`
	Messages   []string `json:"messages"`
	// Skipped is set when the default branch could not be resolved.
	Skipped bool  `json:"skipped"`
	Err     error `json:"-"`
}

// Report is the outcome of a single weekly run.
type Report struct {
	User         string             `json:"user"`
	Since        string             `json:"since"`
	Until        string             `json:"until"`
	Repositories []RepositoryReport `json:"repositories"`
	// SearchErr is set when repository discovery stopped early.
	SearchErr error `json:"-"`
}

// CommitCount returns the number of messages across all repositories.
func (r *Report) CommitCount() int {
	n := 0
	for _, repo := range r.Repositories {
		n += len(repo.Messages)
	}
	return n
}
