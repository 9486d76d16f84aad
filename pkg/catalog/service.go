package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the catalog library. Mutating
// operations return the fully hydrated entity so callers need not re-fetch
// for immediate display.
type Service interface {
	// Category operations
	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (*Category, error)
	// DeleteCategory deletes a category and, first, all of its topics and
	// their contents. The cascade is ordered children-before-parent and
	// stops at the first error.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Topic operations
	ListTopics(ctx context.Context) ([]*TopicWithCategory, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*Topic, error)
	CreateTopic(ctx context.Context, req CreateTopicRequest) (*Topic, error)
	UpdateTopic(ctx context.Context, req UpdateTopicRequest) (*Topic, error)
	// DeleteTopic deletes a topic after deleting each of its contents
	// (detaching any audio assets along the way).
	DeleteTopic(ctx context.Context, id uuid.UUID) error

	// Content operations
	ListContents(ctx context.Context) ([]*ContentWithTopic, error)
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	// SaveContent creates or updates a content item and recomputes the
	// global tag set, returning both. When the write succeeds but the tag
	// recompute fails, the saved entity is still returned with the error.
	SaveContent(ctx context.Context, req SaveContentRequest) (*Content, []string, error)
	// DeleteContent deletes a content item, detaching its audio asset first
	// when one is attached.
	DeleteContent(ctx context.Context, id uuid.UUID) error

	// RefreshTags recomputes the global de-duplicated tag set from every
	// content row. The result is derived, never independently persisted.
	RefreshTags(ctx context.Context) ([]string, error)

	// Audio asset operations
	AttachAudio(ctx context.Context, req AttachAudioRequest) (*Content, error)
	DetachAudio(ctx context.Context, contentID uuid.UUID) (*Content, error)

	// Levels returns the level scheme in effect.
	Levels() LevelScheme
}
