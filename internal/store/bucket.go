package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/resnav/internal/kv"
)

// loadBucket reads a whole bucket as a record slice.
// A bucket that has never been written reads as empty.
func loadBucket[T any](ctx context.Context, backend kv.Store, bucket string) ([]T, error) {
	data, err := backend.Get(ctx, bucket)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to load bucket %s: %w", bucket, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse bucket %s: %w", bucket, err)
	}
	return records, nil
}

// saveBucket writes a whole bucket back in one call.
func saveBucket[T any](ctx context.Context, backend kv.Store, bucket string, records []T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal bucket %s: %w", bucket, err)
	}
	if err := backend.Set(ctx, bucket, data); err != nil {
		return fmt.Errorf("failed to save bucket %s: %w", bucket, err)
	}
	return nil
}
