package httpapi

import (
	"time"

	"github.com/jmoiron/sqlx"

	"legacyvoices-backend-go/internal/models"
	"legacyvoices-backend-go/internal/services"
)

type AttachmentDTO struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type StoryDTO struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	School          string          `json:"school"`
	Location        string          `json:"location"`
	Graduation      *string         `json:"graduation"`
	Type            string          `json:"type"`
	Title           string          `json:"title"`
	Story           string          `json:"story"`
	Status          string          `json:"status"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	ApprovedAt      *string         `json:"approvedAt,omitempty"`
	ApprovedBy      *string         `json:"approvedBy,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	Attachments     []AttachmentDTO `json:"attachments"`
}

func buildStoryDTO(story models.Story, attachments []models.StoryAttachment) StoryDTO {
	items := make([]AttachmentDTO, 0, len(attachments))
	for _, att := range attachments {
		items = append(items, AttachmentDTO{
			Filename:    att.Filename,
			URL:         services.AttachmentURL(att.StorageKey),
			ContentType: att.ContentType,
			SizeBytes:   att.SizeBytes,
		})
	}
	var approvedAt *string
	if story.ApprovedAt != nil {
		formatted := story.ApprovedAt.UTC().Format(time.RFC3339)
		approvedAt = &formatted
	}
	return StoryDTO{
		ID:              story.ID,
		Name:            story.SubmitterName,
		Email:           story.SubmitterEmail,
		School:          story.School,
		Location:        story.Location,
		Graduation:      story.Graduation,
		Type:            story.Category,
		Title:           story.Title,
		Story:           story.Body,
		Status:          story.Status,
		RejectionReason: story.RejectionReason,
		ApprovedAt:      approvedAt,
		ApprovedBy:      story.ApprovedBy,
		CreatedAt:       story.CreatedAt.UTC().Format(time.RFC3339),
		Attachments:     items,
	}
}

func (s *Server) storyListDTOs(db *sqlx.DB, stories []models.Story) ([]StoryDTO, error) {
	items := make([]StoryDTO, 0, len(stories))
	for _, story := range stories {
		attachments, err := services.ListAttachments(db, story.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, buildStoryDTO(story, attachments))
	}
	return items, nil
}
