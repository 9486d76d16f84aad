package catalog

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines the interface for catalog entity persistence. All list
// operations order by created_at descending and return an empty slice, never
// nil, when no rows exist. Create and Update populate store-assigned
// timestamps on the passed entity. Delete of a missing id returns the
// entity's not-found error; deletes are row-level only, cascading is the
// service's job.
type Repository interface {
	// Category operations
	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Topic operations. ListTopics carries the category-name projection.
	ListTopics(ctx context.Context) ([]*TopicWithCategory, error)
	ListTopicsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Topic, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*Topic, error)
	CreateTopic(ctx context.Context, topic *Topic) error
	UpdateTopic(ctx context.Context, topic *Topic) error
	DeleteTopic(ctx context.Context, id uuid.UUID) error

	// Content operations. ListContents carries the topic-title projection.
	ListContents(ctx context.Context) ([]*ContentWithTopic, error)
	ListContentsByTopic(ctx context.Context, topicID uuid.UUID) ([]*Content, error)
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	CreateContent(ctx context.Context, content *Content) error
	UpdateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id uuid.UUID) error

	// ListContentTags returns the tags column of every content row, one
	// slice per row, for tag-set recomputation.
	ListContentTags(ctx context.Context) ([][]string, error)
}

// BlobStore defines the interface for audio asset storage backends.
type BlobStore interface {
	// Upload stores the object at objectKey, overwriting any existing object.
	Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error

	// Download retrieves the object at objectKey.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object at objectKey.
	Delete(ctx context.Context, objectKey string) error

	// GetPublicURL resolves a publicly reachable URL for objectKey. The key
	// must be recoverable from the URL's trailing path segment.
	GetPublicURL(objectKey string) (string, error)

	// GetObjectMeta retrieves metadata for the object at objectKey.
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// EventSink defines the interface for mutation event handling. Sink failures
// are never propagated to callers.
type EventSink interface {
	CategoryDeleted(ctx context.Context, id uuid.UUID) error
	TopicDeleted(ctx context.Context, id uuid.UUID) error
	ContentSaved(ctx context.Context, content *Content) error
	ContentDeleted(ctx context.Context, id uuid.UUID) error
	AudioAttached(ctx context.Context, contentID uuid.UUID, url string) error
	AudioDetached(ctx context.Context, contentID uuid.UUID) error
}
