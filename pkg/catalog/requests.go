package catalog

import "github.com/google/uuid"

// Request DTOs. Update requests use pointer fields for partial-field
// semantics: only non-nil fields are applied.

// CreateCategoryRequest contains parameters for creating a category
type CreateCategoryRequest struct {
	Name        string
	Description string
}

// UpdateCategoryRequest contains parameters for updating a category
type UpdateCategoryRequest struct {
	ID          uuid.UUID
	Name        *string
	Description *string
}

// CreateTopicRequest contains parameters for creating a topic
type CreateTopicRequest struct {
	CategoryID       uuid.UUID
	Title            string
	ShortDescription string
	Description      string
}

// UpdateTopicRequest contains parameters for updating a topic
type UpdateTopicRequest struct {
	ID               uuid.UUID
	CategoryID       *uuid.UUID
	Title            *string
	ShortDescription *string
	Description      *string
}

// SaveContentRequest contains parameters for creating or updating a content
// item. A nil ID creates; a set ID updates that row. The admin form submits
// every field, so saves carry the full field set rather than a partial patch.
// AudioURL is never part of a save; it is managed only by AttachAudio and
// DetachAudio.
type SaveContentRequest struct {
	ID               *uuid.UUID
	TopicID          uuid.UUID
	Level            Level
	Body             string
	ShortDescription string
	Description      string
	Tags             []string
}

// AttachAudioRequest contains parameters for attaching an audio asset to a
// content item. ContentType is the declared media type; when empty the
// payload is sniffed.
type AttachAudioRequest struct {
	ContentID   uuid.UUID
	Data        []byte
	FileName    string
	ContentType string
}
