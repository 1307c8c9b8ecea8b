package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"legacyvoices-backend-go/internal/models"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	PublicListLimit = 50
	AdminListLimit  = 100
)

// StoryInput carries the named submission fields. Every field except
// Graduation is required.
type StoryInput struct {
	Name       string
	Email      string
	School     string
	Location   string
	Graduation string
	Category   string
	Title      string
	Body       string
}

func (in *StoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.School = strings.TrimSpace(in.School)
	in.Location = strings.TrimSpace(in.Location)
	in.Graduation = strings.TrimSpace(in.Graduation)
	in.Category = strings.TrimSpace(in.Category)
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
}

func (in StoryInput) Validate() error {
	required := []struct {
		value string
		field string
	}{
		{in.Name, "name"},
		{in.Email, "email"},
		{in.School, "school"},
		{in.Location, "location"},
		{in.Category, "type"},
		{in.Title, "title"},
		{in.Body, "story"},
	}
	for _, item := range required {
		if item.value == "" {
			return ErrValidation("Missing required field: " + item.field)
		}
	}
	return nil
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// InsertStory persists a validated submission with its attachment
// metadata in one transaction and returns the generated story id.
func InsertStory(db *sqlx.DB, in StoryInput, attachments []AttachmentMeta) (string, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return "", err
	}
	storyID := uuid.NewString()
	now := time.Now().UTC()

	tx, err := db.Beginx()
	if err != nil {
		return "", WrapError(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
INSERT INTO stories (id, submitter_name, submitter_email, school, location, graduation, category, title, body, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`, storyID, in.Name, in.Email, in.School, in.Location, nullable(in.Graduation), in.Category, in.Title, in.Body, StatusPending, now)
	if err != nil {
		return "", WrapError(err, "insert story")
	}
	for i, att := range attachments {
		_, err = tx.Exec(`
INSERT INTO story_attachments (id, story_id, position, filename, storage_key, content_type, size_bytes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, uuid.NewString(), storyID, i, att.Filename, att.StorageKey, att.ContentType, att.SizeBytes, now)
		if err != nil {
			return "", WrapError(err, "insert attachment")
		}
	}
	if err := tx.Commit(); err != nil {
		return "", WrapError(err, "commit")
	}
	return storyID, nil
}

func GetStory(db *sqlx.DB, storyID string) (models.Story, error) {
	var story models.Story
	err := db.Get(&story, `
SELECT id, submitter_name, submitter_email, school, location, graduation, category, title, body,
       status, rejection_reason, approved_at, approved_by, created_at
FROM stories
WHERE id = $1
`, storyID)
	if err != nil {
		return models.Story{}, ErrNotFound("Story not found")
	}
	return story, nil
}

// ListStories returns stories newest-first, optionally filtered by
// status, capped at limit.
func ListStories(db *sqlx.DB, statusFilter string, limit int) ([]models.Story, error) {
	rows := []models.Story{}
	query := `
SELECT id, submitter_name, submitter_email, school, location, graduation, category, title, body,
       status, rejection_reason, approved_at, approved_by, created_at
FROM stories
`
	args := []interface{}{}
	if statusFilter != "" {
		query += "WHERE status = $1\n"
		args = append(args, statusFilter)
		query += "ORDER BY created_at DESC LIMIT $2"
	} else {
		query += "ORDER BY created_at DESC LIMIT $1"
	}
	args = append(args, limit)
	if err := db.Select(&rows, query, args...); err != nil {
		return nil, WrapError(err, "list stories")
	}
	return rows, nil
}

func ListAttachments(db *sqlx.DB, storyID string) ([]models.StoryAttachment, error) {
	rows := []models.StoryAttachment{}
	err := db.Select(&rows, `
SELECT id, story_id, position, filename, storage_key, content_type, size_bytes, created_at
FROM story_attachments
WHERE story_id = $1
ORDER BY position
`, storyID)
	if err != nil {
		return nil, WrapError(err, "list attachments")
	}
	return rows, nil
}

func GetAttachmentByStorageKey(db *sqlx.DB, storageKey string) (models.StoryAttachment, error) {
	var att models.StoryAttachment
	err := db.Get(&att, `
SELECT id, story_id, position, filename, storage_key, content_type, size_bytes, created_at
FROM story_attachments
WHERE storage_key = $1
`, storageKey)
	if err != nil {
		return models.StoryAttachment{}, ErrNotFound("File not found")
	}
	return att, nil
}

// ApproveStory moves a pending story to approved, recording when and by
// whom. Approving an already-approved story is a no-op; approving a
// rejected story is a conflict.
func ApproveStory(db *sqlx.DB, storyID, approvedBy string) (models.Story, error) {
	story, err := GetStory(db, storyID)
	if err != nil {
		return models.Story{}, err
	}
	switch story.Status {
	case StatusApproved:
		return story, nil
	case StatusRejected:
		return models.Story{}, ErrConflict("Story has already been rejected")
	}
	now := time.Now().UTC()
	_, err = db.Exec(`
UPDATE stories SET status = $2, approved_at = $3, approved_by = $4 WHERE id = $1
`, storyID, StatusApproved, now, approvedBy)
	if err != nil {
		return models.Story{}, WrapError(err, "approve story")
	}
	story.Status = StatusApproved
	story.ApprovedAt = &now
	story.ApprovedBy = &approvedBy
	return story, nil
}

// RejectStory moves a pending story to rejected with an optional
// reason. Rejecting an already-rejected story is a no-op; rejecting an
// approved story is a conflict.
func RejectStory(db *sqlx.DB, storyID, reason string) (models.Story, error) {
	story, err := GetStory(db, storyID)
	if err != nil {
		return models.Story{}, err
	}
	switch story.Status {
	case StatusRejected:
		return story, nil
	case StatusApproved:
		return models.Story{}, ErrConflict("Story has already been approved")
	}
	_, err = db.Exec(`
UPDATE stories SET status = $2, rejection_reason = $3 WHERE id = $1
`, storyID, StatusRejected, nullable(reason))
	if err != nil {
		return models.Story{}, WrapError(err, "reject story")
	}
	story.Status = StatusRejected
	story.RejectionReason = nullable(reason)
	return story, nil
}

// DeleteStory removes the record and its attachment files. Files
// already missing on disk are not an error.
func DeleteStory(db *sqlx.DB, basePath, storyID string) (models.Story, error) {
	story, err := GetStory(db, storyID)
	if err != nil {
		return models.Story{}, err
	}
	attachments, err := ListAttachments(db, storyID)
	if err != nil {
		return models.Story{}, err
	}
	if _, err := db.Exec(`DELETE FROM stories WHERE id = $1`, storyID); err != nil {
		return models.Story{}, WrapError(err, "delete story")
	}
	keys := make([]string, 0, len(attachments))
	for _, att := range attachments {
		keys = append(keys, att.StorageKey)
	}
	RemoveAttachmentFiles(basePath, keys)
	return story, nil
}

type StoryCounts struct {
	Total    int `db:"total" json:"total"`
	Pending  int `db:"pending" json:"pending"`
	Approved int `db:"approved" json:"approved"`
	Rejected int `db:"rejected" json:"rejected"`
}

func StoryStats(db *sqlx.DB) (StoryCounts, error) {
	var counts StoryCounts
	err := db.Get(&counts, `
SELECT count(*) AS total,
       count(*) FILTER (WHERE status = 'pending') AS pending,
       count(*) FILTER (WHERE status = 'approved') AS approved,
       count(*) FILTER (WHERE status = 'rejected') AS rejected
FROM stories
`)
	if err != nil {
		return StoryCounts{}, WrapError(err, "story stats")
	}
	return counts, nil
}

func nullable(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
