package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"legacyvoices-backend-go/internal/config"
	"legacyvoices-backend-go/internal/models"
	"legacyvoices-backend-go/internal/services"
)

// testServer builds a Server without a database. Submission validation
// rejects bad input before any persistence, so these paths are
// exercisable on their own.
func testServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		Config: config.Config{UploadStoragePath: t.TempDir()},
		Tokens: testTokens(),
	}
}

type submitForm struct {
	fields map[string]string
	files  []struct {
		name    string
		content []byte
	}
}

func validForm() submitForm {
	return submitForm{fields: map[string]string{
		"name":     "A",
		"email":    "a@x.com",
		"school":   "Morehouse",
		"location": "Atlanta",
		"type":     "memoir",
		"title":    "T",
		"story":    "S",
	}}
}

func (f submitForm) request(t *testing.T) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range f.fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for _, file := range f.files {
		fw, err := mw.CreateFormFile("files", file.name)
		require.NoError(t, err)
		_, err = fw.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/stories", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Error)
	return body.Error
}

func TestSubmitStoryMissingFields(t *testing.T) {
	server := testServer(t)
	for _, field := range []string{"name", "email", "school", "location", "type", "title", "story"} {
		t.Run(field, func(t *testing.T) {
			form := validForm()
			delete(form.fields, field)
			rec := httptest.NewRecorder()
			server.SubmitStory(rec, form.request(t))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, decodeError(t, rec), field)
		})
	}
}

func TestSubmitStoryNotMultipart(t *testing.T) {
	server := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/stories", strings.NewReader(`{"name":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.SubmitStory(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decodeError(t, rec)
}

func TestSubmitStoryTooManyFiles(t *testing.T) {
	server := testServer(t)
	form := validForm()
	for i := 0; i < services.MaxAttachments+1; i++ {
		form.files = append(form.files, struct {
			name    string
			content []byte
		}{"photo.png", []byte("\x89PNG\r\n\x1a\ndata")})
	}
	rec := httptest.NewRecorder()
	server.SubmitStory(rec, form.request(t))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decodeError(t, rec)
}

func TestSubmitStoryUnsupportedFileType(t *testing.T) {
	server := testServer(t)
	form := validForm()
	form.files = append(form.files, struct {
		name    string
		content []byte
	}{"tool.exe", []byte("MZ\x90\x00binary")})
	rec := httptest.NewRecorder()
	server.SubmitStory(rec, form.request(t))
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	decodeError(t, rec)
}

func TestLoginRejectsInvalidPayload(t *testing.T) {
	server := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	server.Login(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decodeError(t, rec)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	server := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"username":"","password":""}`))
	rec := httptest.NewRecorder()
	server.Login(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeError(t, rec)
}

func TestServeUploadRejectsUnsafeKey(t *testing.T) {
	server := testServer(t)
	router := server.Router()
	req := httptest.NewRequest(http.MethodGet, "/uploads/..%2fsecrets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func modelStory(created time.Time, approvedAt *time.Time, approvedBy *string) models.Story {
	return models.Story{
		ID:             "b2a1c6de-0000-0000-0000-000000000000",
		SubmitterName:  "A",
		SubmitterEmail: "a@x.com",
		School:         "Morehouse",
		Location:       "Atlanta",
		Category:       "memoir",
		Title:          "T",
		Body:           "S",
		Status:         services.StatusApproved,
		ApprovedAt:     approvedAt,
		ApprovedBy:     approvedBy,
		CreatedAt:      created,
	}
}

func TestBuildStoryDTOFormatsTimes(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	approvedAt := created.Add(time.Hour)
	approvedBy := "reviewer"
	story := buildStoryDTO(modelStory(created, &approvedAt, &approvedBy), nil)
	require.Equal(t, "2025-03-01T12:00:00Z", story.CreatedAt)
	require.NotNil(t, story.ApprovedAt)
	require.Equal(t, "2025-03-01T13:00:00Z", *story.ApprovedAt)
	require.Equal(t, "reviewer", *story.ApprovedBy)
	require.NotNil(t, story.Attachments)
	require.Empty(t, story.Attachments)
}
