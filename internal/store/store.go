package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"blouconnect/internal/core"
)

// Fixed keys of the persisted collections.
const (
	KeyUser          = "blou.user"
	KeyUsersRegistry = "blou.users_registry"
	KeyPosts         = "blou.posts"
	KeyChats         = "blou.chats"
	KeyMessages      = "blou.messages"
	KeyDarkMode      = "blou.dark_mode"
	KeySchemaVersion = "blou.schema_version"
)

var ErrMalformedValue = errors.New("malformed stored value")

// Load decodes the JSON value stored under key. ok is false when the key is absent.
func Load[T any](ctx context.Context, s core.Store, key string) (value T, ok bool, err error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return value, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if raw == nil {
		return value, false, nil
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("%w: %s: %w", ErrMalformedValue, key, err)
	}
	return value, true, nil
}

// LoadOr is Load with a fallback for absent keys.
func LoadOr[T any](ctx context.Context, s core.Store, key string, fallback T) (T, error) {
	value, ok, err := Load[T](ctx, s, key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	return value, nil
}

// Save re-serializes the whole value and writes it under key.
func Save[T any](ctx context.Context, s core.Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// Exists reports whether key holds a value.
func Exists(ctx context.Context, s core.Store, key string) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}
