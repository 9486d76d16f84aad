package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	events     EventSink
	levels     LevelScheme
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend used for audio assets
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithLevelScheme sets the proficiency level scheme for content validation
func WithLevelScheme(scheme LevelScheme) Option {
	return func(s *service) {
		s.levels = scheme
	}
}

// New creates a new service instance with the given options. A repository is
// required; the level scheme defaults to CEFR.
func New(options ...Option) (Service, error) {
	s := &service{
		levels: SchemeCEFR,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if len(s.levels.Levels) == 0 {
		return nil, fmt.Errorf("level scheme must define at least one level")
	}
	if s.events == nil {
		s.events = NewNoopEventSink()
	}

	return s, nil
}

func (s *service) Levels() LevelScheme {
	return s.levels
}

// Category operations

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repository.ListCategories(ctx)
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repository.GetCategory(ctx, id)
}

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repository.CreateCategory(ctx, category); err != nil {
		return nil, &EntityError{Entity: "category", ID: category.ID, Op: "create", Err: err}
	}

	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (*Category, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	category, err := s.repository.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, &EntityError{Entity: "category", ID: req.ID, Op: "update", Err: err}
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.repository.UpdateCategory(ctx, category); err != nil {
		return nil, &EntityError{Entity: "category", ID: req.ID, Op: "update", Err: err}
	}

	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	topics, err := s.repository.ListTopicsByCategory(ctx, id)
	if err != nil {
		return &EntityError{Entity: "category", ID: id, Op: "delete", Err: err}
	}

	// Children before parent: a failed child delete aborts the cascade and
	// leaves the category and remaining children intact. Retrying the same
	// delete skips children that no longer exist.
	for _, topic := range topics {
		if err := s.DeleteTopic(ctx, topic.ID); err != nil {
			return err
		}
	}

	if err := s.repository.DeleteCategory(ctx, id); err != nil {
		return &EntityError{Entity: "category", ID: id, Op: "delete", Err: err}
	}

	// Sink failures never fail the operation.
	_ = s.events.CategoryDeleted(ctx, id)

	return nil
}

// Topic operations

func (s *service) ListTopics(ctx context.Context) ([]*TopicWithCategory, error) {
	return s.repository.ListTopics(ctx)
}

func (s *service) GetTopic(ctx context.Context, id uuid.UUID) (*Topic, error) {
	return s.repository.GetTopic(ctx, id)
}

func (s *service) CreateTopic(ctx context.Context, req CreateTopicRequest) (*Topic, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if req.CategoryID == uuid.Nil {
		return nil, &ValidationError{Field: "category_id", Reason: "must be set"}
	}

	topic := &Topic{
		ID:               uuid.New(),
		CategoryID:       req.CategoryID,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
	}

	if err := s.repository.CreateTopic(ctx, topic); err != nil {
		return nil, &EntityError{Entity: "topic", ID: topic.ID, Op: "create", Err: err}
	}

	return topic, nil
}

func (s *service) UpdateTopic(ctx context.Context, req UpdateTopicRequest) (*Topic, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if req.CategoryID != nil && *req.CategoryID == uuid.Nil {
		return nil, &ValidationError{Field: "category_id", Reason: "must be set"}
	}

	topic, err := s.repository.GetTopic(ctx, req.ID)
	if err != nil {
		return nil, &EntityError{Entity: "topic", ID: req.ID, Op: "update", Err: err}
	}

	if req.CategoryID != nil {
		topic.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		topic.Title = *req.Title
	}
	if req.ShortDescription != nil {
		topic.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		topic.Description = *req.Description
	}

	if err := s.repository.UpdateTopic(ctx, topic); err != nil {
		return nil, &EntityError{Entity: "topic", ID: req.ID, Op: "update", Err: err}
	}

	return topic, nil
}

func (s *service) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	contents, err := s.repository.ListContentsByTopic(ctx, id)
	if err != nil {
		return &EntityError{Entity: "topic", ID: id, Op: "delete", Err: err}
	}

	for _, content := range contents {
		if err := s.deleteContentRow(ctx, content); err != nil {
			return err
		}
	}

	if err := s.repository.DeleteTopic(ctx, id); err != nil {
		return &EntityError{Entity: "topic", ID: id, Op: "delete", Err: err}
	}

	// Sink failures never fail the operation.
	_ = s.events.TopicDeleted(ctx, id)

	return nil
}

// Content operations

func (s *service) ListContents(ctx context.Context) ([]*ContentWithTopic, error) {
	return s.repository.ListContents(ctx)
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	return s.repository.GetContent(ctx, id)
}

func (s *service) SaveContent(ctx context.Context, req SaveContentRequest) (*Content, []string, error) {
	tags := normalizeTags(req.Tags)

	if req.TopicID == uuid.Nil {
		return nil, nil, &ValidationError{Field: "topic_id", Reason: "must be set"}
	}
	if !s.levels.Contains(req.Level) {
		return nil, nil, &ValidationError{
			Field:  "level",
			Reason: fmt.Sprintf("%q is not a %s level", req.Level, s.levels.Name),
		}
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if len(tags) == 0 {
		return nil, nil, &ValidationError{Field: "tags", Reason: "at least one non-blank tag is required"}
	}

	var content *Content
	if req.ID == nil {
		content = &Content{
			ID:               uuid.New(),
			TopicID:          req.TopicID,
			Level:            req.Level,
			Body:             req.Body,
			ShortDescription: req.ShortDescription,
			Description:      req.Description,
			Tags:             tags,
		}
		if err := s.repository.CreateContent(ctx, content); err != nil {
			return nil, nil, &EntityError{Entity: "content", ID: content.ID, Op: "create", Err: err}
		}
	} else {
		existing, err := s.repository.GetContent(ctx, *req.ID)
		if err != nil {
			return nil, nil, &EntityError{Entity: "content", ID: *req.ID, Op: "update", Err: err}
		}
		existing.TopicID = req.TopicID
		existing.Level = req.Level
		existing.Body = req.Body
		existing.ShortDescription = req.ShortDescription
		existing.Description = req.Description
		existing.Tags = tags
		// AudioURL is left as stored; attach/detach own that pointer.
		if err := s.repository.UpdateContent(ctx, existing); err != nil {
			return nil, nil, &EntityError{Entity: "content", ID: *req.ID, Op: "update", Err: err}
		}
		content = existing
	}

	// Sink failures never fail the operation.
	_ = s.events.ContentSaved(ctx, content)

	allTags, err := s.RefreshTags(ctx)
	if err != nil {
		// The row is already written at this point. Hand back the saved
		// entity so callers can render it and re-fetch the tag set later.
		return content, nil, err
	}

	return content, allTags, nil
}

func (s *service) DeleteContent(ctx context.Context, id uuid.UUID) error {
	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return &EntityError{Entity: "content", ID: id, Op: "delete", Err: err}
	}

	return s.deleteContentRow(ctx, content)
}

// deleteContentRow detaches the content's audio asset, when one is attached,
// before deleting the row. A failed detach aborts the delete so the blob is
// never orphaned by a row removal.
func (s *service) deleteContentRow(ctx context.Context, content *Content) error {
	if content.AudioURL != nil {
		if _, err := s.DetachAudio(ctx, content.ID); err != nil {
			return err
		}
	}

	if err := s.repository.DeleteContent(ctx, content.ID); err != nil {
		return &EntityError{Entity: "content", ID: content.ID, Op: "delete", Err: err}
	}

	// Sink failures never fail the operation.
	_ = s.events.ContentDeleted(ctx, content.ID)

	return nil
}
