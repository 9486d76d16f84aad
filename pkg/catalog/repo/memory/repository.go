package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lingopod/catalog/pkg/catalog"
)

// Repository implements catalog.Repository using in-memory storage. Parent
// references are checked explicitly on write, mirroring the foreign keys the
// postgres schema enforces.
type Repository struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]*catalog.Category
	topics     map[uuid.UUID]*catalog.Topic
	contents   map[uuid.UUID]*catalog.Content
}

// New creates a new in-memory repository
func New() catalog.Repository {
	return &Repository{
		categories: make(map[uuid.UUID]*catalog.Category),
		topics:     make(map[uuid.UUID]*catalog.Topic),
		contents:   make(map[uuid.UUID]*catalog.Content),
	}
}

// Category operations

func (r *Repository) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Category, 0, len(r.categories))
	for _, category := range r.categories {
		categoryCopy := *category
		result = append(result, &categoryCopy)
	}

	sortByCreatedAtDesc(result, func(c *catalog.Category) time.Time { return c.CreatedAt })
	return result, nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, catalog.ErrCategoryNotFound
	}
	categoryCopy := *category
	return &categoryCopy, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *catalog.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stamp(&category.CreatedAt, &category.UpdatedAt)

	categoryCopy := *category
	r.categories[category.ID] = &categoryCopy
	return nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *catalog.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[category.ID]; !exists {
		return catalog.ErrCategoryNotFound
	}

	category.UpdatedAt = time.Now().UTC()
	categoryCopy := *category
	r.categories[category.ID] = &categoryCopy
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[id]; !exists {
		return catalog.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

// Topic operations

func (r *Repository) ListTopics(ctx context.Context) ([]*catalog.TopicWithCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.TopicWithCategory, 0, len(r.topics))
	for _, topic := range r.topics {
		projected := &catalog.TopicWithCategory{Topic: *topic}
		if category, exists := r.categories[topic.CategoryID]; exists {
			projected.CategoryName = category.Name
		}
		result = append(result, projected)
	}

	sortByCreatedAtDesc(result, func(t *catalog.TopicWithCategory) time.Time { return t.CreatedAt })
	return result, nil
}

func (r *Repository) ListTopicsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*catalog.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Topic, 0)
	for _, topic := range r.topics {
		if topic.CategoryID == categoryID {
			topicCopy := *topic
			result = append(result, &topicCopy)
		}
	}

	sortByCreatedAtDesc(result, func(t *catalog.Topic) time.Time { return t.CreatedAt })
	return result, nil
}

func (r *Repository) GetTopic(ctx context.Context, id uuid.UUID) (*catalog.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topic, exists := r.topics[id]
	if !exists {
		return nil, catalog.ErrTopicNotFound
	}
	topicCopy := *topic
	return &topicCopy, nil
}

func (r *Repository) CreateTopic(ctx context.Context, topic *catalog.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[topic.CategoryID]; !exists {
		return &catalog.ForeignKeyError{Field: "category_id", ID: topic.CategoryID}
	}

	stamp(&topic.CreatedAt, &topic.UpdatedAt)

	topicCopy := *topic
	r.topics[topic.ID] = &topicCopy
	return nil
}

func (r *Repository) UpdateTopic(ctx context.Context, topic *catalog.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.topics[topic.ID]; !exists {
		return catalog.ErrTopicNotFound
	}
	if _, exists := r.categories[topic.CategoryID]; !exists {
		return &catalog.ForeignKeyError{Field: "category_id", ID: topic.CategoryID}
	}

	topic.UpdatedAt = time.Now().UTC()
	topicCopy := *topic
	r.topics[topic.ID] = &topicCopy
	return nil
}

func (r *Repository) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.topics[id]; !exists {
		return catalog.ErrTopicNotFound
	}
	delete(r.topics, id)
	return nil
}

// Content operations

func (r *Repository) ListContents(ctx context.Context) ([]*catalog.ContentWithTopic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.ContentWithTopic, 0, len(r.contents))
	for _, content := range r.contents {
		projected := &catalog.ContentWithTopic{Content: *copyContent(content)}
		if topic, exists := r.topics[content.TopicID]; exists {
			projected.TopicTitle = topic.Title
		}
		result = append(result, projected)
	}

	sortByCreatedAtDesc(result, func(c *catalog.ContentWithTopic) time.Time { return c.CreatedAt })
	return result, nil
}

func (r *Repository) ListContentsByTopic(ctx context.Context, topicID uuid.UUID) ([]*catalog.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Content, 0)
	for _, content := range r.contents {
		if content.TopicID == topicID {
			result = append(result, copyContent(content))
		}
	}

	sortByCreatedAtDesc(result, func(c *catalog.Content) time.Time { return c.CreatedAt })
	return result, nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*catalog.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, catalog.ErrContentNotFound
	}
	return copyContent(content), nil
}

func (r *Repository) CreateContent(ctx context.Context, content *catalog.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.topics[content.TopicID]; !exists {
		return &catalog.ForeignKeyError{Field: "topic_id", ID: content.TopicID}
	}

	stamp(&content.CreatedAt, &content.UpdatedAt)

	r.contents[content.ID] = copyContent(content)
	return nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *catalog.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return catalog.ErrContentNotFound
	}
	if _, exists := r.topics[content.TopicID]; !exists {
		return &catalog.ForeignKeyError{Field: "topic_id", ID: content.TopicID}
	}

	content.UpdatedAt = time.Now().UTC()
	r.contents[content.ID] = copyContent(content)
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return catalog.ErrContentNotFound
	}
	delete(r.contents, id)
	return nil
}

func (r *Repository) ListContentTags(ctx context.Context) ([][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([][]string, 0, len(r.contents))
	for _, content := range r.contents {
		tags := make([]string, len(content.Tags))
		copy(tags, content.Tags)
		result = append(result, tags)
	}
	return result, nil
}

// Helpers

// copyContent clones a content row including its tags slice and audio
// pointer, so callers cannot mutate stored state.
func copyContent(content *catalog.Content) *catalog.Content {
	contentCopy := *content
	contentCopy.Tags = make([]string, len(content.Tags))
	copy(contentCopy.Tags, content.Tags)
	if content.AudioURL != nil {
		urlCopy := *content.AudioURL
		contentCopy.AudioURL = &urlCopy
	}
	return &contentCopy
}

func stamp(createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

func sortByCreatedAtDesc[T any](items []*T, createdAt func(*T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
