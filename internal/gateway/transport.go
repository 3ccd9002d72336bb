package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// NewHTTPClient returns an HTTP client that authenticates with a static bearer token
// and gives up on any request after timeout.
//
// Secondary rate limits are detected and logged but never waited out: a limited
// response is handed back to the caller and treated like any other failure.
func NewHTTPClient(token string, timeout time.Duration, logger *logrus.Logger) (*http.Client, error) {
	log := logger.WithField("component", "transport")
	// A zero sleep limit makes every secondary limit "exceed" it, so the
	// waiter reports it through this callback and returns the response as is.
	onLimited := func(cc *github_ratelimit.CallbackContext) {
		entry := log
		if cc.Request != nil {
			entry = entry.WithField("url", cc.Request.URL.String())
		}
		if cc.SleepUntil != nil {
			entry = entry.WithField("reset", cc.SleepUntil.Format(time.RFC3339))
		}
		entry.Warn("secondary rate limit detected")
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(0, onLimited),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}, nil
}
