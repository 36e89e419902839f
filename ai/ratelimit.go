package ai

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a client with a requests-per-minute budget. Complete
// blocks until a slot is available or the context expires.
type RateLimited struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimited wraps client. requestsPerMinute <= 0 disables limiting.
func NewRateLimited(client Client, requestsPerMinute int) *RateLimited {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}
	return &RateLimited{inner: client, limiter: limiter}
}

// Complete waits for a rate-limit slot, then delegates.
func (r *RateLimited) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Complete(ctx, req)
}

// ModelName delegates to the wrapped client.
func (r *RateLimited) ModelName() string {
	return r.inner.ModelName()
}
