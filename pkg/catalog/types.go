package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Level is the proficiency tier assigned to a content item.
type Level string

// LevelScheme is a closed, ordered set of proficiency levels. The scheme in
// effect is fixed at service construction; every content write validates its
// level against it.
type LevelScheme struct {
	Name   string
	Levels []Level
}

// Shipped level schemes.
var (
	// SchemeCEFR is the six-tier Common European Framework scale (default).
	SchemeCEFR = LevelScheme{
		Name:   "cefr",
		Levels: []Level{"a1", "a2", "b1", "b2", "c1", "c2"},
	}

	// SchemeDifficulty is the three-tier easy/medium/hard scale.
	SchemeDifficulty = LevelScheme{
		Name:   "difficulty",
		Levels: []Level{"easy", "medium", "hard"},
	}
)

// Contains reports whether l is one of the scheme's levels.
func (s LevelScheme) Contains(l Level) bool {
	for _, candidate := range s.Levels {
		if candidate == l {
			return true
		}
	}
	return false
}

// LevelSchemeByName returns a shipped scheme by its name.
func LevelSchemeByName(name string) (LevelScheme, bool) {
	switch name {
	case SchemeCEFR.Name:
		return SchemeCEFR, true
	case SchemeDifficulty.Name:
		return SchemeDifficulty, true
	}
	return LevelScheme{}, false
}

// Category is the top level of the catalog tree. Names are display labels and
// are not required to be unique.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Topic belongs to exactly one category.
type Topic struct {
	ID               uuid.UUID `json:"id"`
	CategoryID       uuid.UUID `json:"category_id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description,omitempty"`
	Description      string    `json:"description,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Content is a leaf item under a topic. Tags are a de-duplicated set of
// free-text labels. AudioURL is nil when no audio asset is attached.
type Content struct {
	ID               uuid.UUID `json:"id"`
	TopicID          uuid.UUID `json:"topic_id"`
	Level            Level     `json:"level"`
	Body             string    `json:"content"`
	ShortDescription string    `json:"short_description,omitempty"`
	Description      string    `json:"description,omitempty"`
	Tags             []string  `json:"tags"`
	AudioURL         *string   `json:"audio_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TopicWithCategory denormalizes the parent category's display name onto a
// topic for listing. The projection is read-only presentation data; the
// CategoryID field remains the authoritative relationship.
type TopicWithCategory struct {
	Topic
	CategoryName string `json:"category_name"`
}

// ContentWithTopic denormalizes the parent topic's title onto a content row
// for listing. Read-only, like TopicWithCategory.
type ContentWithTopic struct {
	Content
	TopicTitle string `json:"topic_title"`
}

// ObjectMeta contains metadata about an object in blob storage.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}
