package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lingopod/catalog/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements catalog.Repository using PostgreSQL. Timestamps are
// assigned by the database and read back with RETURNING so every caller sees
// the same clock.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) catalog.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) catalog.Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps driver errors onto the catalog error taxonomy.
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			if strings.Contains(pgErr.ConstraintName, "category") {
				return &catalog.ForeignKeyError{Field: "category_id"}
			}
			if strings.Contains(pgErr.ConstraintName, "topic") {
				return &catalog.ForeignKeyError{Field: "topic_id"}
			}
			return &catalog.ForeignKeyError{Field: pgErr.ConstraintName}
		case "23502": // not_null_violation
			return &catalog.ValidationError{Field: pgErr.ColumnName, Reason: "must not be null"}
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("%w: %s in %s (code: %s)", catalog.ErrStoreUnavailable, pgErr.Message, operation, pgErr.Code)
		}
	}

	// Anything that is not a server-reported error is a transport failure
	// (dial, reset, timeout) and means the store cannot be reached.
	return fmt.Errorf("%w: %s: %w", catalog.ErrStoreUnavailable, operation, err)
}

// Category operations

func (r *Repository) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	query := `
        SELECT id, name, description, created_at, updated_at
        FROM categories
        ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list categories", err)
	}
	defer rows.Close()

	categories := make([]*catalog.Category, 0)
	for rows.Next() {
		var category catalog.Category
		if err := rows.Scan(
			&category.ID, &category.Name, &category.Description,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	query := `
        SELECT id, name, description, created_at, updated_at
        FROM categories WHERE id = $1`

	var category catalog.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Description,
		&category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, r.handlePostgresError("get category", err)
	}

	return &category, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *catalog.Category) error {
	query := `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		category.ID, category.Name, category.Description).
		Scan(&category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create category", err)
	}

	return nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *catalog.Category) error {
	query := `
		UPDATE categories SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		category.ID, category.Name, category.Description).
		Scan(&category.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrCategoryNotFound
		}
		return r.handlePostgresError("update category", err)
	}

	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

// Topic operations

func (r *Repository) ListTopics(ctx context.Context) ([]*catalog.TopicWithCategory, error) {
	query := `
        SELECT t.id, t.category_id, t.title, t.short_description, t.description,
               t.created_at, t.updated_at, c.name
        FROM topics t
        JOIN categories c ON c.id = t.category_id
        ORDER BY t.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list topics", err)
	}
	defer rows.Close()

	topics := make([]*catalog.TopicWithCategory, 0)
	for rows.Next() {
		var topic catalog.TopicWithCategory
		if err := rows.Scan(
			&topic.ID, &topic.CategoryID, &topic.Title, &topic.ShortDescription,
			&topic.Description, &topic.CreatedAt, &topic.UpdatedAt,
			&topic.CategoryName); err != nil {
			return nil, err
		}
		topics = append(topics, &topic)
	}

	return topics, rows.Err()
}

func (r *Repository) ListTopicsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*catalog.Topic, error) {
	query := `
        SELECT id, category_id, title, short_description, description, created_at, updated_at
        FROM topics WHERE category_id = $1
        ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, r.handlePostgresError("list topics by category", err)
	}
	defer rows.Close()

	topics := make([]*catalog.Topic, 0)
	for rows.Next() {
		var topic catalog.Topic
		if err := rows.Scan(
			&topic.ID, &topic.CategoryID, &topic.Title, &topic.ShortDescription,
			&topic.Description, &topic.CreatedAt, &topic.UpdatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, &topic)
	}

	return topics, rows.Err()
}

func (r *Repository) GetTopic(ctx context.Context, id uuid.UUID) (*catalog.Topic, error) {
	query := `
        SELECT id, category_id, title, short_description, description, created_at, updated_at
        FROM topics WHERE id = $1`

	var topic catalog.Topic
	err := r.db.QueryRow(ctx, query, id).Scan(
		&topic.ID, &topic.CategoryID, &topic.Title, &topic.ShortDescription,
		&topic.Description, &topic.CreatedAt, &topic.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrTopicNotFound
		}
		return nil, r.handlePostgresError("get topic", err)
	}

	return &topic, nil
}

func (r *Repository) CreateTopic(ctx context.Context, topic *catalog.Topic) error {
	query := `
		INSERT INTO topics (id, category_id, title, short_description, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		topic.ID, topic.CategoryID, topic.Title,
		topic.ShortDescription, topic.Description).
		Scan(&topic.CreatedAt, &topic.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create topic", err)
	}

	return nil
}

func (r *Repository) UpdateTopic(ctx context.Context, topic *catalog.Topic) error {
	query := `
		UPDATE topics SET
			category_id = $2, title = $3, short_description = $4,
			description = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		topic.ID, topic.CategoryID, topic.Title,
		topic.ShortDescription, topic.Description).
		Scan(&topic.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrTopicNotFound
		}
		return r.handlePostgresError("update topic", err)
	}

	return nil
}

func (r *Repository) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete topic", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrTopicNotFound
	}
	return nil
}

// Content operations

func (r *Repository) ListContents(ctx context.Context) ([]*catalog.ContentWithTopic, error) {
	query := `
        SELECT c.id, c.topic_id, c.level, c.content, c.short_description,
               c.description, c.tags, c.audio_url, c.created_at, c.updated_at,
               t.title
        FROM contents c
        JOIN topics t ON t.id = c.topic_id
        ORDER BY c.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list contents", err)
	}
	defer rows.Close()

	contents := make([]*catalog.ContentWithTopic, 0)
	for rows.Next() {
		var content catalog.ContentWithTopic
		if err := rows.Scan(
			&content.ID, &content.TopicID, &content.Level, &content.Body,
			&content.ShortDescription, &content.Description, &content.Tags,
			&content.AudioURL, &content.CreatedAt, &content.UpdatedAt,
			&content.TopicTitle); err != nil {
			return nil, err
		}
		if content.Tags == nil {
			content.Tags = []string{}
		}
		contents = append(contents, &content)
	}

	return contents, rows.Err()
}

func (r *Repository) ListContentsByTopic(ctx context.Context, topicID uuid.UUID) ([]*catalog.Content, error) {
	query := `
        SELECT id, topic_id, level, content, short_description, description,
               tags, audio_url, created_at, updated_at
        FROM contents WHERE topic_id = $1
        ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, topicID)
	if err != nil {
		return nil, r.handlePostgresError("list contents by topic", err)
	}
	defer rows.Close()

	contents := make([]*catalog.Content, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}

	return contents, rows.Err()
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*catalog.Content, error) {
	query := `
        SELECT id, topic_id, level, content, short_description, description,
               tags, audio_url, created_at, updated_at
        FROM contents WHERE id = $1`

	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrContentNotFound
		}
		return nil, r.handlePostgresError("get content", err)
	}

	return content, nil
}

func (r *Repository) CreateContent(ctx context.Context, content *catalog.Content) error {
	query := `
		INSERT INTO contents (
			id, topic_id, level, content, short_description, description,
			tags, audio_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		content.ID, content.TopicID, content.Level, content.Body,
		content.ShortDescription, content.Description, content.Tags,
		content.AudioURL).
		Scan(&content.CreatedAt, &content.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create content", err)
	}

	return nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *catalog.Content) error {
	query := `
		UPDATE contents SET
			topic_id = $2, level = $3, content = $4, short_description = $5,
			description = $6, tags = $7, audio_url = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		content.ID, content.TopicID, content.Level, content.Body,
		content.ShortDescription, content.Description, content.Tags,
		content.AudioURL).
		Scan(&content.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrContentNotFound
		}
		return r.handlePostgresError("update content", err)
	}

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrContentNotFound
	}
	return nil
}

func (r *Repository) ListContentTags(ctx context.Context) ([][]string, error) {
	rows, err := r.db.Query(ctx, `SELECT tags FROM contents`)
	if err != nil {
		return nil, r.handlePostgresError("list content tags", err)
	}
	defer rows.Close()

	lists := make([][]string, 0)
	for rows.Next() {
		var tags []string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		lists = append(lists, tags)
	}

	return lists, rows.Err()
}

func scanContent(row pgx.Row) (*catalog.Content, error) {
	var content catalog.Content
	err := row.Scan(
		&content.ID, &content.TopicID, &content.Level, &content.Body,
		&content.ShortDescription, &content.Description, &content.Tags,
		&content.AudioURL, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if content.Tags == nil {
		content.Tags = []string{}
	}
	return &content, nil
}
