package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/lingopod/catalog/pkg/catalog"
)

// Handler exposes the catalog service over HTTP
type Handler struct {
	service catalog.Service
	logger  *slog.Logger
}

// NewHandler creates a new catalog API handler
func NewHandler(service catalog.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the routes for the catalog API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Route("/topics", func(r chi.Router) {
		r.Get("/", h.ListTopics)
		r.Post("/", h.CreateTopic)
		r.Get("/{id}", h.GetTopic)
		r.Put("/{id}", h.UpdateTopic)
		r.Delete("/{id}", h.DeleteTopic)
	})

	r.Route("/contents", func(r chi.Router) {
		r.Get("/", h.ListContents)
		r.Post("/", h.SaveContent)
		r.Get("/{id}", h.GetContent)
		r.Put("/{id}", h.SaveContent)
		r.Delete("/{id}", h.DeleteContent)

		r.Post("/{id}/audio", h.AttachAudio)
		r.Delete("/{id}/audio", h.DetachAudio)
	})

	r.Get("/tags", h.ListTags)
	r.Get("/levels", h.ListLevels)

	return r
}

// errorResponse is the JSON error envelope
type errorResponse struct {
	Error string `json:"error"`
}

// renderError maps catalog errors onto HTTP status codes
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var validationErr *catalog.ValidationError
	var assetErr *catalog.InvalidAssetError
	var fkErr *catalog.ForeignKeyError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &assetErr):
		status = http.StatusBadRequest
	case errors.As(err, &fkErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrTopicNotFound),
		errors.Is(err, catalog.ErrContentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrNoAudioAttached):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrStoreUnavailable):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func (h *Handler) urlID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, &catalog.ValidationError{Field: "id", Reason: "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.renderError(w, r, &catalog.ValidationError{Field: "body", Reason: "malformed JSON"})
		return false
	}
	return true
}

// Category handlers

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, categories)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, category)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	create := catalog.CreateCategoryRequest{}
	if req.Name != nil {
		create.Name = *req.Name
	}
	if req.Description != nil {
		create.Description = *req.Description
	}

	category, err := h.service.CreateCategory(r.Context(), create)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, category)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), catalog.UpdateCategoryRequest{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Topic handlers

type topicRequest struct {
	CategoryID       *uuid.UUID `json:"category_id"`
	Title            *string    `json:"title"`
	ShortDescription *string    `json:"short_description"`
	Description      *string    `json:"description"`
}

func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, topics)
}

func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	topic, err := h.service.GetTopic(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, topic)
}

func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !h.decode(w, r, &req) {
		return
	}

	create := catalog.CreateTopicRequest{}
	if req.CategoryID != nil {
		create.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		create.Title = *req.Title
	}
	if req.ShortDescription != nil {
		create.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		create.Description = *req.Description
	}

	topic, err := h.service.CreateTopic(r.Context(), create)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, topic)
}

func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	var req topicRequest
	if !h.decode(w, r, &req) {
		return
	}

	topic, err := h.service.UpdateTopic(r.Context(), catalog.UpdateTopicRequest{
		ID:               id,
		CategoryID:       req.CategoryID,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, topic)
}

func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTopic(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Content handlers

type contentRequest struct {
	TopicID          uuid.UUID     `json:"topic_id"`
	Level            catalog.Level `json:"level"`
	Body             string        `json:"content"`
	ShortDescription string        `json:"short_description"`
	Description      string        `json:"description"`
	Tags             []string      `json:"tags"`
}

// contentSavedResponse carries the saved row and the refreshed global tag set
type contentSavedResponse struct {
	Content *catalog.Content `json:"content"`
	Tags    []string         `json:"tags"`
}

func (h *Handler) ListContents(w http.ResponseWriter, r *http.Request) {
	contents, err := h.service.ListContents(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, contents)
}

func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	content, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, content)
}

// SaveContent serves both POST /contents (create) and PUT /contents/{id}
// (update); the presence of the id segment decides which.
func (h *Handler) SaveContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !h.decode(w, r, &req) {
		return
	}

	save := catalog.SaveContentRequest{
		TopicID:          req.TopicID,
		Level:            req.Level,
		Body:             req.Body,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Tags:             req.Tags,
	}

	status := http.StatusCreated
	if idStr := chi.URLParam(r, "id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			h.renderError(w, r, &catalog.ValidationError{Field: "id", Reason: "must be a UUID"})
			return
		}
		save.ID = &id
		status = http.StatusOK
	}

	content, tags, err := h.service.SaveContent(r.Context(), save)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, status)
	render.JSON(w, r, contentSavedResponse{Content: content, Tags: tags})
}

func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteContent(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Audio handlers

// AttachAudio accepts a multipart form with a "file" part and stores it as
// the content item's audio asset.
func (h *Handler) AttachAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(catalog.MaxAudioSizeBytes); err != nil {
		h.renderError(w, r, &catalog.InvalidAssetError{Reason: "malformed multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderError(w, r, &catalog.ValidationError{Field: "file", Reason: "file part is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	content, err := h.service.AttachAudio(r.Context(), catalog.AttachAudioRequest{
		ContentID:   id,
		Data:        data,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, content)
}

func (h *Handler) DetachAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}

	content, err := h.service.DetachAudio(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, content)
}

// Tag and level handlers

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.RefreshTags(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, tags)
}

func (h *Handler) ListLevels(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Levels())
}
