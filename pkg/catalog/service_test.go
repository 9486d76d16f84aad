package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lingopod/catalog/pkg/catalog"
	"github.com/lingopod/catalog/pkg/catalog/repo/memory"
	memorystorage "github.com/lingopod/catalog/pkg/catalog/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []catalog.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []catalog.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []catalog.Option{
				catalog.WithRepository(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with repository and blob store should succeed",
			options: []catalog.Option{
				catalog.WithRepository(memory.New()),
				catalog.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
		{
			name: "empty level scheme should fail",
			options: []catalog.Option{
				catalog.WithRepository(memory.New()),
				catalog.WithLevelScheme(catalog.LevelScheme{Name: "empty"}),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := catalog.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) (catalog.Service, *memorystorage.Backend) {
	t.Helper()

	store := memorystorage.New()
	svc, err := catalog.New(
		catalog.WithRepository(memory.New()),
		catalog.WithBlobStore(store),
		catalog.WithEventSink(catalog.NewNoopEventSink()),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc, store
}

func mustCreateCategory(t *testing.T, svc catalog.Service, name string) *catalog.Category {
	t.Helper()

	category, err := svc.CreateCategory(context.Background(), catalog.CreateCategoryRequest{
		Name: name,
	})
	require.NoError(t, err)
	return category
}

func mustCreateTopic(t *testing.T, svc catalog.Service, categoryID uuid.UUID, title string) *catalog.Topic {
	t.Helper()

	topic, err := svc.CreateTopic(context.Background(), catalog.CreateTopicRequest{
		CategoryID: categoryID,
		Title:      title,
	})
	require.NoError(t, err)
	return topic
}

func mustSaveContent(t *testing.T, svc catalog.Service, topicID uuid.UUID, level catalog.Level, body string, tags ...string) *catalog.Content {
	t.Helper()

	content, _, err := svc.SaveContent(context.Background(), catalog.SaveContentRequest{
		TopicID: topicID,
		Level:   level,
		Body:    body,
		Tags:    tags,
	})
	require.NoError(t, err)
	return content
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, catalog.CreateCategoryRequest{
		Name:        "Travel",
		Description: "Getting around",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel", got.Name)
	assert.Equal(t, "Getting around", got.Description)

	// Partial update: only the name changes, the description survives.
	newName := "Transport"
	updated, err := svc.UpdateCategory(ctx, catalog.UpdateCategoryRequest{
		ID:   created.ID,
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Transport", updated.Name)
	assert.Equal(t, "Getting around", updated.Description)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	_, err = svc.GetCategory(ctx, created.ID)
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
}

func TestCreateCategoryValidation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, catalog.CreateCategoryRequest{Name: "   "})

	var validationErr *catalog.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Field)

	// A rejected create leaves no row behind.
	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestDeleteMissingCategory(t *testing.T) {
	svc, _ := setupTestService(t)

	err := svc.DeleteCategory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
}

func TestTopicLifecycle(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, svc, "Travel")
	topic, err := svc.CreateTopic(ctx, catalog.CreateTopicRequest{
		CategoryID:       category.ID,
		Title:            "Airports",
		ShortDescription: "Navigating an airport",
	})
	require.NoError(t, err)

	// Listing carries the parent category's name.
	topics, err := svc.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Airports", topics[0].Title)
	assert.Equal(t, "Travel", topics[0].CategoryName)

	newTitle := "Train stations"
	updated, err := svc.UpdateTopic(ctx, catalog.UpdateTopicRequest{
		ID:    topic.ID,
		Title: &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, "Train stations", updated.Title)
	assert.Equal(t, "Navigating an airport", updated.ShortDescription)
	assert.Equal(t, category.ID, updated.CategoryID)

	require.NoError(t, svc.DeleteTopic(ctx, topic.ID))
	_, err = svc.GetTopic(ctx, topic.ID)
	assert.ErrorIs(t, err, catalog.ErrTopicNotFound)
}

func TestCreateTopicUnknownCategory(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.CreateTopic(context.Background(), catalog.CreateTopicRequest{
		CategoryID: uuid.New(),
		Title:      "Orphan",
	})

	var fkErr *catalog.ForeignKeyError
	require.ErrorAs(t, err, &fkErr)
	assert.Equal(t, "category_id", fkErr.Field)
}

func TestSaveContentCreateAndUpdate(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, svc, "Travel")
	topic := mustCreateTopic(t, svc, category.ID, "Airports")

	content, tags, err := svc.SaveContent(ctx, catalog.SaveContentRequest{
		TopicID: topic.ID,
		Level:   "b1",
		Body:    "At the check-in desk...",
		Tags:    []string{"travel", "airport", "travel"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, content.ID)
	assert.Equal(t, []string{"travel", "airport"}, content.Tags)
	assert.Equal(t, []string{"airport", "travel"}, tags)
	assert.Nil(t, content.AudioURL)

	// Updating replaces the row's tags and the global set follows.
	updated, tags, err := svc.SaveContent(ctx, catalog.SaveContentRequest{
		ID:      &content.ID,
		TopicID: topic.ID,
		Level:   "b2",
		Body:    "At the boarding gate...",
		Tags:    []string{"boarding"},
	})
	require.NoError(t, err)
	assert.Equal(t, content.ID, updated.ID)
	assert.Equal(t, catalog.Level("b2"), updated.Level)
	assert.Equal(t, []string{"boarding"}, tags)

	contents, err := svc.ListContents(ctx)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "Airports", contents[0].TopicTitle)
}

func TestSaveContentValidation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, svc, "Travel")
	topic := mustCreateTopic(t, svc, category.ID, "Airports")

	tests := []struct {
		name  string
		req   catalog.SaveContentRequest
		field string
	}{
		{
			name: "missing topic",
			req: catalog.SaveContentRequest{
				Level: "a1",
				Body:  "text",
				Tags:  []string{"x"},
			},
			field: "topic_id",
		},
		{
			name: "unknown level",
			req: catalog.SaveContentRequest{
				TopicID: topic.ID,
				Level:   "expert",
				Body:    "text",
				Tags:    []string{"x"},
			},
			field: "level",
		},
		{
			name: "blank body",
			req: catalog.SaveContentRequest{
				TopicID: topic.ID,
				Level:   "a1",
				Body:    "   ",
				Tags:    []string{"x"},
			},
			field: "content",
		},
		{
			name: "only blank tags",
			req: catalog.SaveContentRequest{
				TopicID: topic.ID,
				Level:   "a1",
				Body:    "text",
				Tags:    []string{" ", ""},
			},
			field: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SaveContent(ctx, tt.req)

			var validationErr *catalog.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	// None of the rejected saves left a row behind.
	contents, err := svc.ListContents(ctx)
	require.NoError(t, err)
	assert.Empty(t, contents)
}

func TestSaveContentUnknownTopic(t *testing.T) {
	svc, _ := setupTestService(t)

	_, _, err := svc.SaveContent(context.Background(), catalog.SaveContentRequest{
		TopicID: uuid.New(),
		Level:   "a1",
		Body:    "text",
		Tags:    []string{"x"},
	})

	var fkErr *catalog.ForeignKeyError
	require.ErrorAs(t, err, &fkErr)
	assert.Equal(t, "topic_id", fkErr.Field)
}

func TestCascadeDeleteCategory(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, svc, "Travel")
	airports := mustCreateTopic(t, svc, category.ID, "Airports")
	hotels := mustCreateTopic(t, svc, category.ID, "Hotels")

	mustSaveContent(t, svc, airports.ID, "a2", "Where is gate 5?", "airport")
	withAudio := mustSaveContent(t, svc, airports.ID, "b1", "Boarding begins soon.", "airport")
	mustSaveContent(t, svc, hotels.ID, "a1", "I have a reservation.", "hotel")

	_, err := svc.AttachAudio(ctx, catalog.AttachAudioRequest{
		ContentID:   withAudio.ID,
		Data:        []byte("fake audio bytes"),
		FileName:    "clip.mp3",
		ContentType: "audio/mpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.ObjectCount())

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))

	// The whole subtree is gone, including the audio object.
	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	topics, err := svc.ListTopics(ctx)
	require.NoError(t, err)
	assert.Empty(t, topics)

	contents, err := svc.ListContents(ctx)
	require.NoError(t, err)
	assert.Empty(t, contents)

	assert.Equal(t, 0, store.ObjectCount())

	tags, err := svc.RefreshTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDeleteTopicRemovesContents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, svc, "Travel")
	topic := mustCreateTopic(t, svc, category.ID, "Airports")
	mustSaveContent(t, svc, topic.ID, "a1", "First", "one")
	mustSaveContent(t, svc, topic.ID, "a2", "Second", "two")

	require.NoError(t, svc.DeleteTopic(ctx, topic.ID))

	contents, err := svc.ListContents(ctx)
	require.NoError(t, err)
	assert.Empty(t, contents)

	// The parent category is untouched.
	_, err = svc.GetCategory(ctx, category.ID)
	assert.NoError(t, err)
}

func TestLevelSchemes(t *testing.T) {
	svc, _ := setupTestService(t)
	assert.Equal(t, "cefr", svc.Levels().Name)

	difficulty, err := catalog.New(
		catalog.WithRepository(memory.New()),
		catalog.WithLevelScheme(catalog.SchemeDifficulty),
	)
	require.NoError(t, err)

	ctx := context.Background()
	category, err := difficulty.CreateCategory(ctx, catalog.CreateCategoryRequest{Name: "Travel"})
	require.NoError(t, err)
	topic, err := difficulty.CreateTopic(ctx, catalog.CreateTopicRequest{
		CategoryID: category.ID,
		Title:      "Airports",
	})
	require.NoError(t, err)

	_, _, err = difficulty.SaveContent(ctx, catalog.SaveContentRequest{
		TopicID: topic.ID,
		Level:   "easy",
		Body:    "text",
		Tags:    []string{"x"},
	})
	assert.NoError(t, err)

	_, _, err = difficulty.SaveContent(ctx, catalog.SaveContentRequest{
		TopicID: topic.ID,
		Level:   "b1",
		Body:    "text",
		Tags:    []string{"x"},
	})
	var validationErr *catalog.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
