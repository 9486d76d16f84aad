package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lingopod/catalog/pkg/catalog"
	"github.com/lingopod/catalog/pkg/catalog/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, repo catalog.Repository, name string) *catalog.Category {
	t.Helper()

	category := &catalog.Category{ID: uuid.New(), Name: name}
	require.NoError(t, repo.CreateCategory(context.Background(), category))
	return category
}

func seedTopic(t *testing.T, repo catalog.Repository, categoryID uuid.UUID, title string) *catalog.Topic {
	t.Helper()

	topic := &catalog.Topic{ID: uuid.New(), CategoryID: categoryID, Title: title}
	require.NoError(t, repo.CreateTopic(context.Background(), topic))
	return topic
}

func seedContent(t *testing.T, repo catalog.Repository, topicID uuid.UUID, tags ...string) *catalog.Content {
	t.Helper()

	content := &catalog.Content{
		ID:      uuid.New(),
		TopicID: topicID,
		Level:   "a1",
		Body:    "text",
		Tags:    tags,
	}
	require.NoError(t, repo.CreateContent(context.Background(), content))
	return content
}

func TestCategoryCRUD(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	category := seedCategory(t, repo, "Travel")
	assert.False(t, category.CreatedAt.IsZero())
	assert.False(t, category.UpdatedAt.IsZero())

	got, err := repo.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel", got.Name)

	got.Name = "Transport"
	require.NoError(t, repo.UpdateCategory(ctx, got))

	got, err = repo.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Transport", got.Name)

	require.NoError(t, repo.DeleteCategory(ctx, category.ID))
	_, err = repo.GetCategory(ctx, category.ID)
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.ErrorIs(t, repo.DeleteCategory(ctx, category.ID), catalog.ErrCategoryNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	category := seedCategory(t, repo, "Travel")
	topic := seedTopic(t, repo, category.ID, "Airports")
	content := seedContent(t, repo, topic.ID, "airport")

	got, err := repo.GetContent(ctx, content.ID)
	require.NoError(t, err)

	// Mutating the returned value must not leak into the store.
	got.Body = "mutated"
	got.Tags[0] = "mutated"
	url := "http://example.com/x.mp3"
	got.AudioURL = &url

	fresh, err := repo.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, "text", fresh.Body)
	assert.Equal(t, []string{"airport"}, fresh.Tags)
	assert.Nil(t, fresh.AudioURL)
}

func TestForeignKeyChecks(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	var fkErr *catalog.ForeignKeyError

	err := repo.CreateTopic(ctx, &catalog.Topic{ID: uuid.New(), CategoryID: uuid.New(), Title: "x"})
	require.ErrorAs(t, err, &fkErr)
	assert.Equal(t, "category_id", fkErr.Field)

	err = repo.CreateContent(ctx, &catalog.Content{ID: uuid.New(), TopicID: uuid.New(), Level: "a1", Body: "x"})
	require.ErrorAs(t, err, &fkErr)
	assert.Equal(t, "topic_id", fkErr.Field)

	// Moving a topic to a missing category is rejected too.
	category := seedCategory(t, repo, "Travel")
	topic := seedTopic(t, repo, category.ID, "Airports")
	topic.CategoryID = uuid.New()
	err = repo.UpdateTopic(ctx, topic)
	require.ErrorAs(t, err, &fkErr)
}

func TestListProjections(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	category := seedCategory(t, repo, "Travel")
	topic := seedTopic(t, repo, category.ID, "Airports")
	seedContent(t, repo, topic.ID, "airport")

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Travel", topics[0].CategoryName)

	contents, err := repo.ListContents(ctx)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "Airports", contents[0].TopicTitle)
}

func TestListByParent(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	category := seedCategory(t, repo, "Travel")
	other := seedCategory(t, repo, "Food")
	topic := seedTopic(t, repo, category.ID, "Airports")
	seedTopic(t, repo, other.ID, "Restaurants")
	seedContent(t, repo, topic.ID, "airport")

	topics, err := repo.ListTopicsByCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Airports", topics[0].Title)

	contents, err := repo.ListContentsByTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Len(t, contents, 1)

	// Unknown parent yields an empty list, not an error.
	none, err := repo.ListTopicsByCategory(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListContentTags(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	category := seedCategory(t, repo, "Travel")
	topic := seedTopic(t, repo, category.ID, "Airports")
	seedContent(t, repo, topic.ID, "a", "b")
	seedContent(t, repo, topic.ID, "b", "c")

	lists, err := repo.ListContentTags(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 2)

	total := 0
	for _, tags := range lists {
		total += len(tags)
	}
	assert.Equal(t, 4, total)
}

func TestUpdateMissingRows(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	err := repo.UpdateCategory(ctx, &catalog.Category{ID: uuid.New(), Name: "x"})
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)

	err = repo.UpdateTopic(ctx, &catalog.Topic{ID: uuid.New(), Title: "x"})
	assert.ErrorIs(t, err, catalog.ErrTopicNotFound)

	err = repo.UpdateContent(ctx, &catalog.Content{ID: uuid.New(), Level: "a1", Body: "x"})
	assert.ErrorIs(t, err, catalog.ErrContentNotFound)
}
