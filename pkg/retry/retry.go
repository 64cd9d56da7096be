package retry

import (
	"context"
	"fmt"
	"log"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// DefaultMaxElapsed bounds how long a dependency may stay unreachable at startup
const DefaultMaxElapsed = 30 * time.Second

// Connect runs op with exponential backoff until it succeeds, ctx is done or
// maxElapsed passes. It is meant for process startup, where postgres, redis
// or minio may come up after the service.
func Connect(ctx context.Context, name string, maxElapsed time.Duration, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = maxElapsed

	attempt := 0
	notify := func(err error, next time.Duration) {
		attempt++
		log.Printf("⏳ %s not ready (attempt %d): %v, retrying in %s", name, attempt, err, next.Round(time.Millisecond))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify); err != nil {
		return fmt.Errorf("%s unreachable: %w", name, err)
	}
	return nil
}

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	return backoff.Permanent(err)
}
