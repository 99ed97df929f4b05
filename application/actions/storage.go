package actions

import (
	"context"
	"encoding/json"
	"fmt"

	"bdd_automation/domain/entities"
)

// Keys and values are passed as evaluation arguments, never spliced into the script.
const (
	scriptGetItem = "key => localStorage.getItem(key)"
	scriptDump    = "() => JSON.stringify(localStorage)"
	scriptSetItem = "([key, value]) => localStorage.setItem(key, value)"
	scriptClear   = "() => localStorage.clear()"
)

// GetLocalStorage - returns the value stored under key and whether it exists
func (l *Layer) GetLocalStorage(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := bounded(ctx, l.timeouts.Action)
	defer cancel()

	result, err := l.Page().Evaluate(ctx, scriptGetItem, key)
	if err != nil {
		return "", false, classify("get_local_storage", key, err, entities.ErrActionTimeout)
	}

	switch v := result.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	default:
		return fmt.Sprint(v), true, nil
	}
}

// DumpLocalStorage - returns the whole local storage serialized as a JSON object
func (l *Layer) DumpLocalStorage(ctx context.Context) (string, error) {
	ctx, cancel := bounded(ctx, l.timeouts.Action)
	defer cancel()

	result, err := l.Page().Evaluate(ctx, scriptDump, nil)
	if err != nil {
		return "", classify("get_local_storage", "", err, entities.ErrActionTimeout)
	}

	if s, ok := result.(string); ok {
		return s, nil
	}

	// some drivers hand back the decoded object
	data, err := json.Marshal(result)
	if err != nil {
		return "", entities.NewActionError(entities.ErrDriver, "get_local_storage", "", err)
	}
	return string(data), nil
}

// SetLocalStorage - stores value under key
func (l *Layer) SetLocalStorage(ctx context.Context, key, value string) error {
	ctx, cancel := bounded(ctx, l.timeouts.Action)
	defer cancel()

	if _, err := l.Page().Evaluate(ctx, scriptSetItem, []string{key, value}); err != nil {
		return classify("set_local_storage", key, err, entities.ErrActionTimeout)
	}
	return nil
}

// ClearLocalStorage - removes every local storage entry
func (l *Layer) ClearLocalStorage(ctx context.Context) error {
	ctx, cancel := bounded(ctx, l.timeouts.Action)
	defer cancel()

	if _, err := l.Page().Evaluate(ctx, scriptClear, nil); err != nil {
		return classify("clear_local_storage", "", err, entities.ErrActionTimeout)
	}
	return nil
}
