package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"legacyvoices-backend-go/internal/services"
)

type MessageResponse struct {
	Message string `json:"message"`
}

// AdminListStories lists stories newest-first, optionally filtered by
// status, capped at 100.
func (s *Server) AdminListStories(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	if statusFilter != "" && !services.ValidStatus(statusFilter) {
		WriteError(w, http.StatusBadRequest, "Unknown status filter")
		return
	}
	stories, err := services.ListStories(s.DB, statusFilter, services.AdminListLimit)
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

func (s *Server) AdminStoryDetail(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyId")
	story, err := services.GetStory(s.DB, storyID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	attachments, err := services.ListAttachments(s.DB, storyID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildStoryDTO(story, attachments))
}

func (s *Server) ApproveStory(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyId")
	story, err := services.ApproveStory(s.DB, storyID, CurrentAdmin(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := s.Mailer.SendApproved(story.SubmitterEmail, story.SubmitterName, story.Title); err != nil {
		log.Printf("notify approval %s: %v", storyID, err)
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Story approved"})
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) RejectStory(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyId")
	var req RejectRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	story, err := services.RejectStory(s.DB, storyID, req.Reason)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := s.Mailer.SendRejected(story.SubmitterEmail, story.SubmitterName, story.Title, req.Reason); err != nil {
		log.Printf("notify rejection %s: %v", storyID, err)
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Story rejected"})
}

func (s *Server) DeleteStory(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyId")
	if _, err := services.DeleteStory(s.DB, s.Config.UploadStoragePath, storyID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Story deleted"})
}

func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := services.StoryStats(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, counts)
}

type MetricsHistoryResponse struct {
	Items []services.MetricSample `json:"items"`
}

func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 120)
	if limit > 500 {
		limit = 500
	}
	items, err := services.LatestMetrics(s.DB, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, MetricsHistoryResponse{Items: items})
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
