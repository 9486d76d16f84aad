package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingopod/catalog/pkg/catalog"
	"github.com/lingopod/catalog/pkg/catalog/api"
	"github.com/lingopod/catalog/pkg/catalog/repo/memory"
	memorystorage "github.com/lingopod/catalog/pkg/catalog/storage/memory"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc, err := catalog.New(
		catalog.WithRepository(memory.New()),
		catalog.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)

	server := httptest.NewServer(api.NewHandler(svc, nil).Routes())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createCategory(t *testing.T, server *httptest.Server, name string) catalog.Category {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/categories", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var category catalog.Category
	decodeBody(t, resp, &category)
	return category
}

func createTopic(t *testing.T, server *httptest.Server, categoryID, title string) catalog.Topic {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/topics", map[string]string{
		"category_id": categoryID,
		"title":       title,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var topic catalog.Topic
	decodeBody(t, resp, &topic)
	return topic
}

type savedContent struct {
	Content catalog.Content `json:"content"`
	Tags    []string        `json:"tags"`
}

func createContent(t *testing.T, server *httptest.Server, topicID string, tags []string) savedContent {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/contents", map[string]interface{}{
		"topic_id": topicID,
		"level":    "b1",
		"content":  "At the check-in desk...",
		"tags":     tags,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var saved savedContent
	decodeBody(t, resp, &saved)
	return saved
}

func TestCategoryEndpoints(t *testing.T) {
	server := setupTestServer(t)

	category := createCategory(t, server, "Travel")
	assert.Equal(t, "Travel", category.Name)

	resp := doJSON(t, http.MethodGet, server.URL+"/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var categories []catalog.Category
	decodeBody(t, resp, &categories)
	assert.Len(t, categories, 1)

	resp = doJSON(t, http.MethodPut, server.URL+"/categories/"+category.ID.String(), map[string]string{"name": "Transport"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated catalog.Category
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Transport", updated.Name)

	resp = doJSON(t, http.MethodDelete, server.URL+"/categories/"+category.ID.String(), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/categories/"+category.ID.String(), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorStatusMapping(t *testing.T) {
	server := setupTestServer(t)

	// Blank name fails validation.
	resp := doJSON(t, http.MethodPost, server.URL+"/categories", map[string]string{"name": "  "})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed id segment.
	resp = doJSON(t, http.MethodGet, server.URL+"/categories/not-a-uuid", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown parent is a semantic error, not a malformed request.
	resp = doJSON(t, http.MethodPost, server.URL+"/topics", map[string]string{
		"category_id": "00000000-0000-0000-0000-000000000001",
		"title":       "Orphan",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Garbage JSON body.
	req, err := http.NewRequest(http.MethodPost, server.URL+"/categories", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestContentSaveAndTagEndpoints(t *testing.T) {
	server := setupTestServer(t)

	category := createCategory(t, server, "Travel")
	topic := createTopic(t, server, category.ID.String(), "Airports")

	saved := createContent(t, server, topic.ID.String(), []string{"travel", "airport"})
	assert.Equal(t, []string{"airport", "travel"}, saved.Tags)

	// Update through PUT keeps the same row.
	resp := doJSON(t, http.MethodPut, server.URL+"/contents/"+saved.Content.ID.String(), map[string]interface{}{
		"topic_id": topic.ID.String(),
		"level":    "b2",
		"content":  "At the boarding gate...",
		"tags":     []string{"boarding"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated savedContent
	decodeBody(t, resp, &updated)
	assert.Equal(t, saved.Content.ID, updated.Content.ID)
	assert.Equal(t, []string{"boarding"}, updated.Tags)

	resp = doJSON(t, http.MethodGet, server.URL+"/tags", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tags []string
	decodeBody(t, resp, &tags)
	assert.Equal(t, []string{"boarding"}, tags)

	resp = doJSON(t, http.MethodGet, server.URL+"/levels", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var scheme catalog.LevelScheme
	decodeBody(t, resp, &scheme)
	assert.Equal(t, "cefr", scheme.Name)
}

func attachAudio(t *testing.T, server *httptest.Server, contentID string, data []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="clip.mp3"`)
	header.Set("Content-Type", "audio/mpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, server.URL+"/contents/"+contentID+"/audio", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAudioEndpoints(t *testing.T) {
	server := setupTestServer(t)

	category := createCategory(t, server, "Travel")
	topic := createTopic(t, server, category.ID.String(), "Airports")
	saved := createContent(t, server, topic.ID.String(), []string{"airport"})

	resp := attachAudio(t, server, saved.Content.ID.String(), []byte("fake audio bytes"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var attached catalog.Content
	decodeBody(t, resp, &attached)
	require.NotNil(t, attached.AudioURL)

	resp = doJSON(t, http.MethodDelete, server.URL+"/contents/"+saved.Content.ID.String()+"/audio", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detached catalog.Content
	decodeBody(t, resp, &detached)
	assert.Nil(t, detached.AudioURL)

	// A second detach has nothing to remove.
	resp = doJSON(t, http.MethodDelete, server.URL+"/contents/"+saved.Content.ID.String()+"/audio", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
