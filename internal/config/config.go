// Package config loads and validates the settings of a report run.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/naka-gawa/weekly-commits/internal/domain"
	"github.com/naka-gawa/weekly-commits/internal/render"
)

// Branch resolvers selectable with BranchResolver.
const (
	ResolverREST    = "rest"
	ResolverGraphQL = "graphql"
)

// Config holds everything a report run needs. It is built once in cmd and
// passed down; nothing below cmd reads the environment.
type Config struct {
	// GitHub
	Token      string
	Username   string
	BaseURL    string
	GraphQLURL string

	// Report
	Branch         string
	TimestampMode  domain.TimestampMode
	BranchResolver string
	MaxPages       int
	Timeout        time.Duration

	// Output
	Format  render.Format
	Summary bool
	Verbose bool
}

// Default returns a Config with every optional field set.
func Default() Config {
	return Config{
		BaseURL:        "https://api.github.com/",
		Branch:         "main",
		TimestampMode:  domain.TimestampUTC,
		BranchResolver: ResolverREST,
		MaxPages:       50,
		Timeout:        30 * time.Second,
		Format:         render.FormatText,
	}
}

// LoadEnv loads envFile, or ./.env when envFile is empty, and reads the
// credentials from the environment. A missing ./.env is not an error.
func LoadEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		// Load .env file if it exists (ignore error if not found)
		_ = godotenv.Load()
	}

	cfg.Token = getEnv("GITHUB_TOKEN", cfg.Token)
	cfg.Username = getEnv("USERNAME", getEnv("GITHUB_USER", cfg.Username))
	cfg.BaseURL = getEnv("GITHUB_API_URL", cfg.BaseURL)
	cfg.GraphQLURL = getEnv("GITHUB_GRAPHQL_URL", cfg.GraphQLURL)
	return nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Token == "" {
		return &ConfigError{Field: "GITHUB_TOKEN", Message: "GitHub token is required"}
	}
	if c.Username == "" {
		return &ConfigError{Field: "USERNAME", Message: "GitHub user name is required"}
	}
	if c.MaxPages < 1 {
		return &ConfigError{Field: "max-pages", Message: "must be at least 1"}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Field: "timeout", Message: "must be positive"}
	}
	if _, err := domain.ParseTimestampMode(string(c.TimestampMode)); err != nil {
		return &ConfigError{Field: "timestamps", Message: err.Error()}
	}
	if c.BranchResolver != ResolverREST && c.BranchResolver != ResolverGraphQL {
		return &ConfigError{Field: "branch-resolver", Message: "must be 'rest' or 'graphql'"}
	}
	if _, err := render.ParseFormat(string(c.Format)); err != nil {
		return &ConfigError{Field: "format", Message: err.Error()}
	}
	return nil
}

// GraphQLEndpoint returns GraphQLURL, or derives it from BaseURL when unset.
// An empty result means the public api.github.com endpoint.
// GitHub Enterprise serves REST under /api/v3 and GraphQL under /api/graphql.
func (c *Config) GraphQLEndpoint() (string, error) {
	if c.GraphQLURL != "" {
		return c.GraphQLURL, nil
	}
	if c.BaseURL == "" {
		return "", nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", &ConfigError{Field: "api-url", Message: err.Error()}
	}
	if u.Host == "api.github.com" {
		return "", nil
	}
	path := strings.TrimSuffix(u.Path, "/")
	if strings.HasSuffix(path, "/api/v3") {
		u.Path = strings.TrimSuffix(path, "/v3") + "/graphql"
	} else {
		u.Path = path + "/graphql"
	}
	return u.String(), nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
