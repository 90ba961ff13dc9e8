package fetch

import (
	"context"
	"errors"
)

// WithFallback returns a Fetcher that tries primary first and consults next
// only when primary fails with a network error. Layout and format errors
// pass through: refetching the same page a different way will not fix its
// markup.
func WithFallback(primary, next Fetcher) Fetcher {
	return &fallbackFetcher{primary: primary, next: next}
}

type fallbackFetcher struct {
	primary Fetcher
	next    Fetcher
}

func (f *fallbackFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := f.primary.Fetch(ctx, url)
	if err == nil {
		return body, nil
	}
	if f.next == nil || !errors.Is(err, ErrNetwork) {
		return nil, err
	}
	return f.next.Fetch(ctx, url)
}
