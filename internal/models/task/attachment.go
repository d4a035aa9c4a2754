package task

import (
	"time"

	"github.com/google/uuid"
)

// Attachment describes a file stored outside the database.
type Attachment struct {
	ID               uuid.UUID `json:"id"`
	TaskID           uuid.UUID `json:"task_id"`
	UploadedBy       uuid.UUID `json:"uploaded_by"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	StorageURL       string    `json:"storage_url"`
	StorageKey       string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}
