package kv

import (
	"context"
	"errors"
)

// Bucket names used by the stores. Each bucket is one JSON blob.
const (
	BucketResources       = "resources"
	BucketGroups          = "groups"
	BucketNotes           = "notes"
	BucketSyncConfig      = "webdav_config"
	BucketLocalSyncBackup = "local_sync_backup"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal key-value contract the data layer is built on.
// The backing medium (memory, filesystem, Redis) is swappable without
// touching store logic.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set durably stores the blob under key, replacing any prior value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
