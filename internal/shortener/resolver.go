package shortener

import (
	"context"
	"errors"
)

// Resolver is the redirect read path. It only consults the LinkStore.
type Resolver struct {
	links LinkStore
}

// NewResolver creates a redirect resolver.
func NewResolver(links LinkStore) *Resolver {
	return &Resolver{links: links}
}

// Resolve returns the destination for code. A missing code yields ok == false
// and a nil error.
func (r *Resolver) Resolve(ctx context.Context, code Code) (url string, ok bool, err error) {
	url, err = r.links.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}

		return "", false, err
	}

	return url, true, nil
}
