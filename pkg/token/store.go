package token

import "context"

// Store maps one-time download tokens to letter file paths. Take
// consumes the token: a second Take for the same token misses.
type Store interface {
	Put(ctx context.Context, token, path string) error
	Take(ctx context.Context, token string) (path string, found bool, err error)
}
