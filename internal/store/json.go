package store

import (
	"context"
	"encoding/json"
)

// LoadJSON reads key from s and unmarshals it into T. A missing key, a read
// error or malformed JSON all yield fallback; storage corruption must never
// surface as an error to the UI path.
func LoadJSON[T any](ctx context.Context, s Store, key string, fallback T) T {
	raw, err := s.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

// SaveJSON marshals v and writes it under key.
func SaveJSON[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}
