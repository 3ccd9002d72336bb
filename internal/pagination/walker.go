// Package pagination walks paged GitHub API results one page at a time.
package pagination

import (
	"context"
	"iter"

	"github.com/naka-gawa/weekly-commits/internal/domain"
)

// FetchFunc fetches a single page. Page 0 is the first request, sent without a
// page parameter; later calls receive the page number taken from the previous
// response's "next" link. next is 0 when the response carried no "next" link.
type FetchFunc[T any] func(ctx context.Context, page int) (items []T, next int, err error)

// Pages returns a lazy sequence of pages. The sequence ends after the first page
// without a "next" link, after the first error (which is yielded), or once
// maxPages pages have been fetched, in which case domain.ErrPageLimit is yielded.
func Pages[T any](ctx context.Context, maxPages int, fetch FetchFunc[T]) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		page := 0
		for n := 0; ; n++ {
			if n >= maxPages {
				yield(nil, domain.ErrPageLimit)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			items, next, err := fetch(ctx, page)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(items, nil) || next == 0 {
				return
			}
			page = next
		}
	}
}

// Collect drains Pages, returning every item fetched before the sequence ended.
// The result is degraded if any page failed or the page cap was hit.
func Collect[T any](ctx context.Context, maxPages int, fetch FetchFunc[T]) domain.Result[T] {
	var items []T
	for page, err := range Pages(ctx, maxPages, fetch) {
		if err != nil {
			return domain.PartiallyFailed(items, err)
		}
		items = append(items, page...)
	}
	return domain.Ok(items)
}
