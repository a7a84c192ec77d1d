package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
	"smart-farm-monitor/internal/middleware"
)

func (e *testEnv) createPost(t *testing.T, token, title string) uint {
	t.Helper()

	w := e.request(t, http.MethodPost, "/board/posts", token, map[string]interface{}{
		"title":      title,
		"content":    "how do I keep aphids off?",
		"plant_type": "tomato",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var post models.BoardPostModel
	require.NoError(t, e.db.Order("post_id DESC").First(&post).Error)
	return post.ID
}

func TestCreateAndGetPost(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	postID := env.createPost(t, token, "Aphid trouble")

	// The detail view is public.
	w := env.request(t, http.MethodGet, fmt.Sprintf("/board/posts/%d", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Aphid trouble")
	assert.Contains(t, w.Body.String(), `"author":"grower"`)

	w = env.request(t, http.MethodGet, "/board/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Aphid trouble")
}

func TestGetPostNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/board/posts/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePostOnlyAuthor(t *testing.T) {
	env := newTestEnv(t)
	_, authorToken := env.createUser(t, "author@farm.io", "author")
	_, otherToken := env.createUser(t, "other@farm.io", "other")

	postID := env.createPost(t, authorToken, "Original title")

	payload := map[string]interface{}{
		"title":   "Edited title",
		"content": "edited content",
	}

	w := env.request(t, http.MethodPut, fmt.Sprintf("/board/posts/%d", postID), otherToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/board/posts/%d", postID), authorToken, payload)
	require.Equal(t, http.StatusOK, w.Code)

	var post models.BoardPostModel
	require.NoError(t, env.db.First(&post, postID).Error)
	assert.Equal(t, "Edited title", post.Title)
}

func TestDeletePostOnlyAuthor(t *testing.T) {
	env := newTestEnv(t)
	_, authorToken := env.createUser(t, "author@farm.io", "author")
	_, otherToken := env.createUser(t, "other@farm.io", "other")

	postID := env.createPost(t, authorToken, "Doomed post")

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/board/posts/%d", postID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/board/posts/%d", postID), authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.BoardPostModel{}).Where("post_id = ?", postID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	_, authorToken := env.createUser(t, "author@farm.io", "author")
	_, commenterToken := env.createUser(t, "commenter@farm.io", "commenter")

	postID := env.createPost(t, authorToken, "Comment here")

	w := env.request(t, http.MethodPost, fmt.Sprintf("/board/posts/%d/comments", postID), commenterToken, map[string]interface{}{
		"comment": "try neem oil",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Contains(t, body, "newComment")
	assert.Contains(t, w.Body.String(), `"author":"commenter"`)

	// Comment shows up on the post detail.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/board/posts/%d", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "try neem oil")
}

func TestAddCommentBlankRejected(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "author@farm.io", "author")
	postID := env.createPost(t, token, "No empty comments")

	w := env.request(t, http.MethodPost, fmt.Sprintf("/board/posts/%d/comments", postID), token, map[string]interface{}{
		"comment": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBoardIdentity(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.createUser(t, "grower@farm.io", "grower")

	w := env.request(t, http.MethodGet, "/board/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"nickname":"grower"`)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"user_id":%d`, userID))
}

// uploadRequest builds a multipart body with one file under the images
// field.
func uploadRequest(t *testing.T, token, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="images"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts/upload-images", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
	return req
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	req := uploadRequest(t, token, "leaf.png", "image/png", []byte("not-really-a-png"))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	urls, ok := body["imageUrls"].([]interface{})
	require.True(t, ok)
	require.Len(t, urls, 1)

	url, ok := urls[0].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(url, "/uploads/images-"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// The file landed in the upload directory under its generated name.
	saved := filepath.Join(env.cfg.Upload.Dir, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "not-really-a-png", string(data))
}

func TestUploadRejectsNonImageExtension(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	req := uploadRequest(t, token, "notes.txt", "text/plain", []byte("hello"))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRejectsMismatchedMIME(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	// Extension says png, MIME says something else entirely.
	req := uploadRequest(t, token, "sneaky.png", "application/octet-stream", []byte("payload"))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRequiresFiles(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "grower@farm.io", "grower")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("unrelated", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts/upload-images", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
