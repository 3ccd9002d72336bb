package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/naka-gawa/weekly-commits/internal/domain"
	"github.com/stretchr/testify/assert"
)

// fakePages serves pages[i] for the i-th request and links to the next one
// until the last page.
type fakePages struct {
	pages     [][]string
	failAt    int // 1-based request number that fails, 0 for never
	requested []int
}

func (f *fakePages) fetch(_ context.Context, page int) ([]string, int, error) {
	f.requested = append(f.requested, page)
	n := len(f.requested)
	if n == f.failAt {
		return nil, 0, errors.New("500 Internal Server Error")
	}
	if n > len(f.pages) {
		return nil, 0, fmt.Errorf("unexpected request %d", n)
	}
	next := 0
	if n < len(f.pages) {
		next = n + 1
	}
	return f.pages[n-1], next, nil
}

func TestCollect(t *testing.T) {
	testCases := []struct {
		name              string
		pages             [][]string
		failAt            int
		maxPages          int
		expectedItems     []string
		expectedRequested []int
		expectedErr       error
	}{
		{
			name:              "single page without next link",
			pages:             [][]string{{"a", "b"}},
			maxPages:          10,
			expectedItems:     []string{"a", "b"},
			expectedRequested: []int{0},
		},
		{
			name:              "follows next links until the last page",
			pages:             [][]string{{"a"}, {"b"}, {"c"}, {}},
			maxPages:          10,
			expectedItems:     []string{"a", "b", "c"},
			expectedRequested: []int{0, 2, 3, 4},
		},
		{
			name:              "failure on page two keeps page one",
			pages:             [][]string{{"a"}, {"b"}, {"c"}},
			failAt:            2,
			maxPages:          10,
			expectedItems:     []string{"a"},
			expectedRequested: []int{0, 2},
			expectedErr:       errors.New("500 Internal Server Error"),
		},
		{
			name:              "stops at the page cap",
			pages:             [][]string{{"a"}, {"b"}, {"c"}},
			maxPages:          2,
			expectedItems:     []string{"a", "b"},
			expectedRequested: []int{0, 2},
			expectedErr:       domain.ErrPageLimit,
		},
		{
			name:              "empty first page",
			pages:             [][]string{{}},
			maxPages:          10,
			expectedRequested: []int{0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakePages{pages: tc.pages, failAt: tc.failAt}

			result := Collect(context.Background(), tc.maxPages, f.fetch)

			assert.Equal(t, tc.expectedItems, result.Items)
			assert.Equal(t, tc.expectedRequested, f.requested)
			if tc.expectedErr != nil {
				assert.True(t, result.Degraded())
				assert.EqualError(t, result.Err, tc.expectedErr.Error())
			} else {
				assert.False(t, result.Degraded())
			}
		})
	}
}

func TestPages_StopsWhenConsumerBreaks(t *testing.T) {
	f := &fakePages{pages: [][]string{{"a"}, {"b"}, {"c"}}}
	for page, err := range Pages(context.Background(), 10, f.fetch) {
		assert.NoError(t, err)
		assert.Equal(t, []string{"a"}, page)
		break
	}
	assert.Equal(t, []int{0}, f.requested)
}

func TestPages_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakePages{pages: [][]string{{"a"}}}

	result := Collect(ctx, 10, f.fetch)

	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.Empty(t, f.requested)
}
