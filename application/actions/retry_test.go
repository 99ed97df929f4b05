package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"bdd_automation/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	value, err := Retry(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", entities.ErrDriverTimeout
		}
		return "done", nil
	}, 3, time.Second)

	require.NoError(t, err)
	assert.Equal(t, "done", value)
	assert.Equal(t, 3, calls)
}

func TestRetryExhausted(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, entities.NewActionError(entities.ErrElementNotFound, "click", "#late", entities.ErrDriverTimeout)
	}, 3, time.Second)

	assert.Equal(t, 3, calls)
	assertKind(t, err, entities.ErrActionTimeout)
	assert.ErrorIs(t, err, entities.ErrDriverTimeout)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Contains(t, err.Error(), "#late")
}

func TestRetryDoesNotRetryOtherErrors(t *testing.T) {
	hidden := entities.NewActionError(entities.ErrElementNotVisible, "click", "#modal", nil)

	calls := 0
	_, err := Retry(context.Background(), func(context.Context) (struct{}, error) {
		calls++
		return struct{}{}, hidden
	}, 5, time.Second)

	assert.Equal(t, 1, calls)
	assert.Same(t, hidden, err)
}

func TestRetryAppliesPerAttemptTimeout(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), func(ctx context.Context) (struct{}, error) {
		calls++
		<-ctx.Done()
		return struct{}{}, ctx.Err()
	}, 2, 10*time.Millisecond)

	assert.Equal(t, 2, calls)
	assertKind(t, err, entities.ErrActionTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryAtLeastOnce(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), func(context.Context) (bool, error) {
		calls++
		return false, errors.New("boom")
	}, 0, 0)

	assert.Equal(t, 1, calls)
	assert.EqualError(t, err, "boom")
}

func TestLayerRetry(t *testing.T) {
	el := &fakeElement{visible: true, actionErr: entities.ErrDriverTimeout}
	page := newFakePage("about:blank").add("#flaky", el)
	l := newLayer(t, newFakeSession(page), nil)

	err := l.Retry(context.Background(), func(ctx context.Context) error {
		if len(el.calls) == 1 {
			el.actionErr = nil
		}
		return l.Click(ctx, "#flaky")
	}, 3, time.Second)

	require.NoError(t, err)
	assert.Equal(t, []string{"click", "click"}, el.calls)
}
