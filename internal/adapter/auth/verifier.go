package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"todosvc/internal/core/domain"
	"todosvc/internal/core/port"
)

type HTTPVerifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPVerifier builds the client for the external verification service.
// One POST per gated request, no retries: failures surface immediately.
func NewHTTPVerifier(endpoint string, timeout time.Duration) port.TokenVerifier {
	return &HTTPVerifier{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Verify forwards the Authorization header unchanged. A transport failure
// is domain.ErrAuthUnavailable; any non-200 answer is domain.ErrInvalidToken.
func (v *HTTPVerifier) Verify(ctx context.Context, authorization string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, nil)

	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuthUnavailable, err)
	}

	req.Header.Set("Authorization", authorization)

	resp, err := v.client.Do(req)

	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuthUnavailable, err)
	}

	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: verify endpoint returned %d", domain.ErrInvalidToken, resp.StatusCode)
	}

	return nil
}
