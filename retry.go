package main

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultRetryAttempts = 60
	defaultRetryInterval = time.Second
)

// RetryPolicy retries an operation a fixed number of times with a fixed
// pause in between. Every error is retryable.
type RetryPolicy struct {
	Attempts int
	Interval time.Duration
	// Timer paces the waits between attempts; nil uses a real timer.
	Timer backoff.Timer
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: defaultRetryAttempts, Interval: defaultRetryInterval}
}

// Do runs op until it succeeds, the attempts run out or ctx is done. It
// returns how many times op ran and the last error.
func (p RetryPolicy) Do(ctx context.Context, op func() error, notify func(err error, wait time.Duration)) (int, error) {
	attempts := 0
	counted := func() error {
		attempts++
		return op()
	}

	maxRetries := 0
	if p.Attempts > 1 {
		maxRetries = p.Attempts - 1
	}
	var policy backoff.BackOff = backoff.NewConstantBackOff(p.Interval)
	policy = backoff.WithMaxRetries(policy, uint64(maxRetries))
	policy = backoff.WithContext(policy, ctx)

	err := backoff.RetryNotifyWithTimer(counted, policy, notify, p.Timer)

	return attempts, err
}
