package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"legacyvoices-backend-go/internal/models"
)

// ErrNoAdmin is returned by EnsureAdmin when the admins table is empty
// and no provisioning credentials were supplied.
var ErrNoAdmin = errors.New("no administrator account exists and ADMIN_USERNAME/ADMIN_EMAIL/ADMIN_PASSWORD are not set")

// EnsureAdmin provisions the first administrator account from explicit
// credentials. It does nothing when an admin already exists; it fails
// when none exists and no credentials were provided, so the server
// never starts with a guessable default account.
func EnsureAdmin(db *sqlx.DB, tokens TokenService, username, email, password string) error {
	var count int
	if err := db.Get(&count, `SELECT count(*) FROM admins`); err != nil {
		return WrapError(err, "count admins")
	}
	if count > 0 {
		return nil
	}
	if username == "" || email == "" || password == "" {
		return ErrNoAdmin
	}
	hash, err := tokens.HashPassword(password)
	if err != nil {
		return WrapError(err, "hash admin password")
	}
	_, err = db.Exec(`
INSERT INTO admins (id, username, email, password_hash, created_at)
VALUES ($1,$2,$3,$4,$5)
`, uuid.NewString(), username, email, hash, time.Now().UTC())
	return WrapError(err, "insert admin")
}

func GetAdminByUsername(db *sqlx.DB, username string) (models.Admin, error) {
	var admin models.Admin
	err := db.Get(&admin, `
SELECT id, username, email, password_hash, created_at
FROM admins
WHERE username = $1
`, username)
	if err != nil {
		return models.Admin{}, ErrUnauthorized("Invalid credentials")
	}
	return admin, nil
}

func AdminExists(db *sqlx.DB, username string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM admins WHERE username = $1)`, username)
	return exists, err
}
