package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"legacyvoices-backend-go/internal/db"
	"legacyvoices-backend-go/internal/migrations"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and
// applies migrations. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	database, err := db.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Apply(database, filepath.Join("..", "..", "migrations")))
	t.Cleanup(func() {
		database.MustExec(`TRUNCATE TABLE stories CASCADE`)
		database.MustExec(`TRUNCATE TABLE admins`)
		_ = database.Close()
	})
	return database
}

func TestStoryLifecycle(t *testing.T) {
	database := openTestDB(t)
	uploadDir := t.TempDir()

	t.Run("insert sets pending and fresh id", func(t *testing.T) {
		id, err := InsertStory(database, validInput(), nil)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		story, err := GetStory(database, id)
		require.NoError(t, err)
		require.Equal(t, StatusPending, story.Status)
		require.Nil(t, story.ApprovedAt)
		require.Nil(t, story.ApprovedBy)
		require.WithinDuration(t, time.Now().UTC(), story.CreatedAt, time.Minute)

		approved, err := ListStories(database, StatusApproved, PublicListLimit)
		require.NoError(t, err)
		require.Empty(t, approved)
	})

	t.Run("insert rejects missing required field", func(t *testing.T) {
		in := validInput()
		in.Title = ""
		_, err := InsertStory(database, in, nil)
		require.Error(t, err)
		serr, ok := err.(ServiceError)
		require.True(t, ok)
		require.Equal(t, 400, serr.Status)
	})

	t.Run("approve records reviewer and time", func(t *testing.T) {
		id, err := InsertStory(database, validInput(), nil)
		require.NoError(t, err)

		story, err := ApproveStory(database, id, "reviewer")
		require.NoError(t, err)
		require.Equal(t, StatusApproved, story.Status)
		require.NotNil(t, story.ApprovedAt)
		require.NotNil(t, story.ApprovedBy)
		require.Equal(t, "reviewer", *story.ApprovedBy)
		require.False(t, story.ApprovedAt.Before(story.CreatedAt))

		// Re-approving is a no-op.
		again, err := ApproveStory(database, id, "someone-else")
		require.NoError(t, err)
		require.Equal(t, "reviewer", *again.ApprovedBy)

		// Rejecting an approved story conflicts.
		_, err = RejectStory(database, id, "nope")
		require.Error(t, err)
		serr, ok := err.(ServiceError)
		require.True(t, ok)
		require.Equal(t, 409, serr.Status)
	})

	t.Run("reject stores reason verbatim", func(t *testing.T) {
		id, err := InsertStory(database, validInput(), nil)
		require.NoError(t, err)

		story, err := RejectStory(database, id, "  needs more detail ")
		require.NoError(t, err)
		require.Equal(t, StatusRejected, story.Status)
		require.NotNil(t, story.RejectionReason)
		require.Equal(t, "  needs more detail ", *story.RejectionReason)

		_, err = ApproveStory(database, id, "reviewer")
		require.Error(t, err)
	})

	t.Run("reject without reason stores null", func(t *testing.T) {
		id, err := InsertStory(database, validInput(), nil)
		require.NoError(t, err)

		story, err := RejectStory(database, id, "")
		require.NoError(t, err)
		require.Nil(t, story.RejectionReason)
	})

	t.Run("list filters by status newest first", func(t *testing.T) {
		pending, err := ListStories(database, StatusPending, AdminListLimit)
		require.NoError(t, err)
		for _, story := range pending {
			require.Equal(t, StatusPending, story.Status)
		}
		for i := 1; i < len(pending); i++ {
			require.False(t, pending[i-1].CreatedAt.Before(pending[i].CreatedAt))
		}
	})

	t.Run("delete removes record and files", func(t *testing.T) {
		attachment := AttachmentMeta{
			Filename:    "photo.png",
			StorageKey:  "test-delete.png",
			ContentType: "image/png",
			SizeBytes:   4,
		}
		require.NoError(t, os.WriteFile(filepath.Join(uploadDir, attachment.StorageKey), []byte("data"), 0o644))

		id, err := InsertStory(database, validInput(), []AttachmentMeta{attachment})
		require.NoError(t, err)

		attachments, err := ListAttachments(database, id)
		require.NoError(t, err)
		require.Len(t, attachments, 1)

		_, err = DeleteStory(database, uploadDir, id)
		require.NoError(t, err)

		_, err = GetStory(database, id)
		require.Error(t, err)
		_, err = os.Stat(filepath.Join(uploadDir, attachment.StorageKey))
		require.True(t, os.IsNotExist(err))

		// Deleting again is a not-found.
		_, err = DeleteStory(database, uploadDir, id)
		require.Error(t, err)
	})

	t.Run("stats counts by status", func(t *testing.T) {
		counts, err := StoryStats(database)
		require.NoError(t, err)
		require.Equal(t, counts.Total, counts.Pending+counts.Approved+counts.Rejected)
	})
}

func TestAdminProvisioning(t *testing.T) {
	database := openTestDB(t)
	tokens := testTokenService()

	t.Run("fails with no credentials on empty table", func(t *testing.T) {
		err := EnsureAdmin(database, tokens, "", "", "")
		require.ErrorIs(t, err, ErrNoAdmin)
	})

	t.Run("provisions first admin from explicit credentials", func(t *testing.T) {
		require.NoError(t, EnsureAdmin(database, tokens, "reviewer", "reviewer@example.com", "hunter2"))

		admin, err := GetAdminByUsername(database, "reviewer")
		require.NoError(t, err)
		require.Equal(t, "reviewer@example.com", admin.Email)
		require.NotEqual(t, "hunter2", admin.PasswordHash)
		require.True(t, tokens.VerifyPassword("hunter2", admin.PasswordHash))

		exists, err := AdminExists(database, "reviewer")
		require.NoError(t, err)
		require.True(t, exists)
	})

	t.Run("is a no-op once an admin exists", func(t *testing.T) {
		require.NoError(t, EnsureAdmin(database, tokens, "", "", ""))
		var count int
		require.NoError(t, database.Get(&count, `SELECT count(*) FROM admins`))
		require.Equal(t, 1, count)
	})

	t.Run("unknown username is unauthorized", func(t *testing.T) {
		_, err := GetAdminByUsername(database, "nobody")
		require.Error(t, err)
		serr, ok := err.(ServiceError)
		require.True(t, ok)
		require.Equal(t, 401, serr.Status)
	})
}
