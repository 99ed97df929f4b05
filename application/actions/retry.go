package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bdd_automation/domain/entities"
)

// Retry - runs action up to maxRetries times, each attempt bounded by timeout.
// Only timeout errors are retried; after the final attempt they surface as
// ErrActionTimeout. Any other error is returned immediately.
func Retry[T any](ctx context.Context, action func(context.Context) (T, error), maxRetries int, timeout time.Duration) (T, error) {
	var zero T
	if maxRetries < 1 {
		maxRetries = 1
	}

	var last error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, classify("retry", "", err, entities.ErrActionTimeout)
		}

		value, err := runAttempt(ctx, action, timeout)
		if err == nil {
			return value, nil
		}
		if !entities.IsTimeout(err) {
			return zero, err
		}
		last = err
	}

	return zero, exhausted(maxRetries, last)
}

func runAttempt[T any](ctx context.Context, action func(context.Context) (T, error), timeout time.Duration) (T, error) {
	ctx, cancel := bounded(ctx, timeout)
	defer cancel()
	return action(ctx)
}

// exhausted - builds the final timeout error. The last error's own kind is
// folded into the message so the result carries ErrActionTimeout only.
func exhausted(attempts int, last error) error {
	detail := fmt.Sprintf("failed after %d attempts", attempts)
	cause := last

	var ae *entities.ActionError
	if errors.As(last, &ae) {
		detail += fmt.Sprintf(": %s: %v", ae.Op, ae.Kind)
		if ae.Target != "" {
			detail += fmt.Sprintf(" '%s'", ae.Target)
		}
		cause = ae.Err
	}

	err := entities.NewActionError(entities.ErrActionTimeout, "retry", "", cause)
	err.Detail = detail
	return err
}

// Retry - runs action with Retry, logging each retried timeout
func (l *Layer) Retry(ctx context.Context, action func(context.Context) error, maxRetries int, timeout time.Duration) error {
	attempt := 0
	_, err := Retry(ctx, func(ctx context.Context) (struct{}, error) {
		attempt++
		err := action(ctx)
		if err != nil && entities.IsTimeout(err) && attempt < maxRetries {
			l.logger.WithError(err).Debugf("Attempt %d/%d timed out, retrying", attempt, maxRetries)
		}
		return struct{}{}, err
	}, maxRetries, timeout)
	return err
}
