package browser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"bdd_automation/domain/entities"

	"github.com/playwright-community/playwright-go"
)

// timeoutMs - converts the time left before the context deadline into a
// playwright timeout in milliseconds, or fallback when there is no deadline
func timeoutMs(ctx context.Context, fallback time.Duration) *float64 {
	d := fallback
	if deadline, ok := ctx.Deadline(); ok {
		d = time.Until(deadline)
	}
	// playwright treats 0 as "no timeout"
	ms := math.Max(1, float64(d.Milliseconds()))
	return playwright.Float(ms)
}

// translateErr - marks driver timeouts with entities.ErrDriverTimeout
func translateErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entities.ErrDriverTimeout) {
		return err
	}
	if errors.Is(err, playwright.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%w: %v", entities.ErrDriverTimeout, err)
	}
	return err
}

// translateAssertion - web-first assertions fail only when polling runs out,
// so every failure except a closed target is a timeout
func translateAssertion(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTargetClosed) {
		return err
	}
	return translateErr(ctx, fmt.Errorf("%w: %v", entities.ErrDriverTimeout, err))
}
