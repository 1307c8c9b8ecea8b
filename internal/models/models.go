package models

import "time"

type Admin struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Story struct {
	ID              string     `db:"id"`
	SubmitterName   string     `db:"submitter_name"`
	SubmitterEmail  string     `db:"submitter_email"`
	School          string     `db:"school"`
	Location        string     `db:"location"`
	Graduation      *string    `db:"graduation"`
	Category        string     `db:"category"`
	Title           string     `db:"title"`
	Body            string     `db:"body"`
	Status          string     `db:"status"`
	RejectionReason *string    `db:"rejection_reason"`
	ApprovedAt      *time.Time `db:"approved_at"`
	ApprovedBy      *string    `db:"approved_by"`
	CreatedAt       time.Time  `db:"created_at"`
}

type StoryAttachment struct {
	ID          string    `db:"id"`
	StoryID     string    `db:"story_id"`
	Position    int       `db:"position"`
	Filename    string    `db:"filename"`
	StorageKey  string    `db:"storage_key"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	CreatedAt   time.Time `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	HeapUsedBytes     int64     `db:"heap_used_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
