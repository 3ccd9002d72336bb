package domain

// Result holds items accumulated from a paginated traversal.
// A nil Err means the traversal completed; otherwise Items holds whatever was
// collected before Err stopped it.
type Result[T any] struct {
	Items []T
	Err   error
}

// Ok wraps a complete result.
func Ok[T any](items []T) Result[T] {
	return Result[T]{Items: items}
}

// PartiallyFailed wraps the items collected before err.
func PartiallyFailed[T any](items []T, err error) Result[T] {
	return Result[T]{Items: items, Err: err}
}

// Degraded reports whether the traversal stopped early.
func (r Result[T]) Degraded() bool {
	return r.Err != nil
}
