package domain

import (
	"fmt"
	"strings"
)

// RepositorySet is a deduplicated set of "owner/name" repository identifiers.
// Identifiers are kept in the order they were first added.
type RepositorySet struct {
	seen  map[string]struct{}
	order []string
}

// NewRepositorySet creates an empty RepositorySet.
func NewRepositorySet() *RepositorySet {
	return &RepositorySet{seen: make(map[string]struct{})}
}

// Add inserts name and reports whether it was new. Empty names are ignored.
func (s *RepositorySet) Add(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// Len returns the number of distinct repositories.
func (s *RepositorySet) Len() int {
	return len(s.order)
}

// Names returns a copy of the identifiers in discovery order.
func (s *RepositorySet) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// SplitFullName splits "owner/name" into its two parts.
func SplitFullName(fullName string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository identifier %q, want owner/name", fullName)
	}
	return owner, name, nil
}
