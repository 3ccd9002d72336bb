package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPageLimit is returned when a traversal stops at the configured page cap.
	ErrPageLimit = errors.New("page limit reached")
	// ErrNoDefaultBranch is returned when a repository reports no default branch.
	ErrNoDefaultBranch = errors.New("repository has no default branch")
)

// Endpoint names used in FetchError.
const (
	EndpointCommitSearch = "commit search"
	EndpointRepository   = "repository metadata"
	EndpointCommitList   = "commit listing"
)

// FetchError describes a failed call to one of the GitHub endpoints.
type FetchError struct {
	Endpoint   string
	Repository string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Repository == "" {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s for %s: %v", e.Endpoint, e.Repository, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
