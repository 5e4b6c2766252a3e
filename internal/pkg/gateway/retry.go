package gateway

import (
	"context"
	"errors"
	"time"
)

// ErrPollTimeout means attempts were exhausted before the gateway reported
// a terminal status. Distinct from a FAILED payment: the order may still
// settle later.
var ErrPollTimeout = errors.New("gave up waiting for a terminal order status")

// RetryPolicy bounds the status poll against the gateway. Waiting for an
// external terminal state is kept here, outside the payment state machine.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultRetryPolicy mirrors the checkout page's polling behaviour:
// up to 30 attempts, 2 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 30, Interval: 2 * time.Second}
}

// PollUntilTerminal asks the gateway for the order status until it reports
// a terminal one or the policy is exhausted. Each attempt's result is passed
// to observe (may be nil) so the caller can apply non-terminal updates.
func PollUntilTerminal(ctx context.Context, g Gateway, orderID string, policy RetryPolicy, observe func(*OrderStatus)) (*OrderStatus, error) {
	if policy.MaxAttempts < 1 {
		policy = DefaultRetryPolicy()
	}

	var last error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(policy.Interval):
			}
		}

		status, err := g.GetOrder(ctx, orderID)
		if err != nil {
			// Transient gateway trouble still consumes an attempt.
			last = err
			continue
		}
		if observe != nil {
			observe(status)
		}
		if status.IsTerminal() {
			return status, nil
		}
	}

	if last != nil {
		return nil, last
	}
	return nil, ErrPollTimeout
}
