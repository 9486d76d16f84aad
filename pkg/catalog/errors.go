package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrCategoryNotFound indicates a category was not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTopicNotFound indicates a topic was not found
	ErrTopicNotFound = errors.New("topic not found")

	// ErrContentNotFound indicates a content item was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrNoAudioAttached indicates a detach was requested for a content item
	// that has no audio asset
	ErrNoAudioAttached = errors.New("no audio attached")

	// ErrStoreUnavailable indicates the backing store could not be reached
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrOrphanedAsset indicates an audio object was uploaded but the content
	// row could not be updated to reference it. The blob is unreferenced and
	// must be caught by an out-of-band reconciliation sweep.
	ErrOrphanedAsset = errors.New("audio object uploaded but not referenced")

	// ErrDanglingAudioURL indicates the audio object was deleted but the
	// content row still points at it. Requires the same reconciliation sweep.
	ErrDanglingAudioURL = errors.New("audio_url references a deleted object")
)

// ValidationError reports malformed or missing required input. It is always
// raised before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ForeignKeyError reports a parent reference that does not exist.
type ForeignKeyError struct {
	Field string
	ID    uuid.UUID
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("referenced %s %s does not exist", e.Field, e.ID)
}

// InvalidAssetError reports an asset payload of the wrong media kind or over
// the size ceiling. Raised before any upload.
type InvalidAssetError struct {
	Reason string
}

func (e *InvalidAssetError) Error() string {
	return fmt.Sprintf("invalid asset: %s", e.Reason)
}

// EntityError represents an error related to an entity operation
type EntityError struct {
	Entity string
	ID     uuid.UUID
	Op     string
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("catalog operation %s failed for %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
