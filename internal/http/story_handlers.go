package httpapi

import (
	"log"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"legacyvoices-backend-go/internal/services"
)

const submitFormMemory = 16 << 20

type SubmitResponse struct {
	Message string `json:"message"`
	StoryID string `json:"storyId"`
}

// SubmitStory accepts a public multipart submission: named fields plus
// up to five attachments. Field and file validation happens before
// anything is written, so a violating batch leaves no story and no
// files behind.
func (s *Server) SubmitStory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(submitFormMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}
	input := services.StoryInput{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		School:     r.FormValue("school"),
		Location:   r.FormValue("location"),
		Graduation: r.FormValue("graduation"),
		Category:   r.FormValue("type"),
		Title:      r.FormValue("title"),
		Body:       r.FormValue("story"),
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		WriteServiceError(w, err)
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) > services.MaxAttachments {
		WriteError(w, http.StatusBadRequest, "At most 5 files can be attached")
		return
	}
	contentTypes := make([]string, len(headers))
	for i, header := range headers {
		contentType, err := services.ValidateAttachment(header)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		contentTypes[i] = contentType
	}

	saved := make([]services.AttachmentMeta, 0, len(headers))
	for i, header := range headers {
		meta, err := services.SaveAttachment(s.Config.UploadStoragePath, header, contentTypes[i])
		if err != nil {
			s.discardSaved(saved)
			WriteServiceError(w, err)
			return
		}
		saved = append(saved, meta)
	}

	storyID, err := services.InsertStory(s.DB, input, saved)
	if err != nil {
		s.discardSaved(saved)
		WriteServiceError(w, err)
		return
	}

	if err := s.Mailer.SendSubmissionReceived(input.Email, input.Name, input.Title); err != nil {
		log.Printf("notify submission %s: %v", storyID, err)
	}

	WriteJSON(w, http.StatusCreated, SubmitResponse{
		Message: "Story submitted successfully",
		StoryID: storyID,
	})
}

func (s *Server) discardSaved(saved []services.AttachmentMeta) {
	keys := make([]string, 0, len(saved))
	for _, meta := range saved {
		keys = append(keys, meta.StorageKey)
	}
	services.RemoveAttachmentFiles(s.Config.UploadStoragePath, keys)
}

// PublicApproved lists approved stories newest-first, capped at 50.
func (s *Server) PublicApproved(w http.ResponseWriter, r *http.Request) {
	stories, err := services.ListStories(s.DB, services.StatusApproved, services.PublicListLimit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items, err := s.storyListDTOs(s.DB, stories)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// ServeUpload streams a stored attachment back under its generated
// storage name, with the content type recorded at submission time.
func (s *Server) ServeUpload(w http.ResponseWriter, r *http.Request) {
	storageKey := chi.URLParam(r, "storageKey")
	if !services.SafeStorageKey(storageKey) {
		WriteError(w, http.StatusNotFound, "File not found")
		return
	}
	att, err := services.GetAttachmentByStorageKey(s.DB, storageKey)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	path := services.AttachmentDiskPath(s.Config.UploadStoragePath, att.StorageKey)
	file, err := os.Open(path)
	if err != nil {
		WriteError(w, http.StatusNotFound, "File not found")
		return
	}
	defer func() { _ = file.Close() }()
	info, err := file.Stat()
	if err != nil {
		WriteError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", att.ContentType)
	http.ServeContent(w, r, att.Filename, info.ModTime(), file)
}
