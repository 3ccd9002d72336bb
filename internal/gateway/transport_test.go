package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_SecondaryRateLimit(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "You have exceeded a secondary rate limit. Please wait a few minutes before you try again.",
			"documentation_url": "https://docs.github.com/rest/overview/resources-in-the-rest-api#secondary-rate-limits"}`)
	}))
	defer server.Close()

	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	client, err := NewHTTPClient("test-token", 5*time.Second, logger)
	require.NoError(t, err)
	gateway, err := NewGitHubGateway(client, server.URL, 10, logger)
	require.NoError(t, err)

	start := time.Now()
	_, err = gateway.DefaultBranch(context.Background(), "alice/proj-a")

	assert.Error(t, err)
	assert.Equal(t, 1, requests, "a limited request is not retried")
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, logs.String(), "secondary rate limit detected")
	assert.Contains(t, logs.String(), "component=transport")
}
