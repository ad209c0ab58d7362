package port

import "context"

// TokenVerifier consults the external verification service about a raw
// Authorization header value. A nil return means the request may proceed.
// Failures are domain.ErrInvalidToken or domain.ErrAuthUnavailable.
type TokenVerifier interface {
	Verify(ctx context.Context, authorization string) error
}
