package services

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxAttachments     = 5
	MaxAttachmentBytes = 10 << 20
)

// AttachmentMeta describes a stored upload before it is recorded on a
// story.
type AttachmentMeta struct {
	Filename    string
	StorageKey  string
	ContentType string
	SizeBytes   int64
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,

	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,

	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,

	"text/plain": true,
}

var extensionContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// ValidateAttachment checks one upload against the size ceiling and the
// allowed-type list and returns the resolved content type.
func ValidateAttachment(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxAttachmentBytes {
		return "", ErrFileTooLarge("File too large: " + header.Filename)
	}
	contentType, err := detectContentType(header)
	if err != nil {
		return "", err
	}
	if !allowedContentTypes[contentType] {
		return "", ErrUnsupportedFileType("Unsupported file type: " + header.Filename)
	}
	return contentType, nil
}

// detectContentType resolves the media type from the file extension
// when it is a known one, otherwise by sniffing the first bytes.
// Office formats sniff as zip archives, so the extension wins.
func detectContentType(header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if contentType, ok := extensionContentTypes[ext]; ok {
		return contentType, nil
	}
	file, err := header.Open()
	if err != nil {
		return "", WrapError(err, "open upload")
	}
	defer func() { _ = file.Close() }()
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", WrapError(err, "read upload")
	}
	sniffed := http.DetectContentType(buf[:n])
	if idx := strings.Index(sniffed, ";"); idx >= 0 {
		sniffed = strings.TrimSpace(sniffed[:idx])
	}
	return sniffed, nil
}

func EnsureStoragePath(base string) (string, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", err
	}
	return base, nil
}

// SaveAttachment writes an upload under a generated storage key and
// returns its metadata. The original filename survives only as
// metadata; the on-disk name is collision-resistant.
func SaveAttachment(basePath string, header *multipart.FileHeader, contentType string) (AttachmentMeta, error) {
	if _, err := EnsureStoragePath(basePath); err != nil {
		return AttachmentMeta{}, WrapError(err, "storage path")
	}
	storageKey := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	targetPath := filepath.Join(basePath, storageKey)

	src, err := header.Open()
	if err != nil {
		return AttachmentMeta{}, WrapError(err, "open upload")
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(targetPath)
	if err != nil {
		return AttachmentMeta{}, WrapError(err, "create file")
	}
	size, err := io.Copy(dst, src)
	_ = dst.Close()
	if err != nil {
		_ = os.Remove(targetPath)
		return AttachmentMeta{}, WrapError(err, "write file")
	}
	if size == 0 {
		_ = os.Remove(targetPath)
		return AttachmentMeta{}, ErrValidation("Empty file: " + header.Filename)
	}
	return AttachmentMeta{
		Filename:    header.Filename,
		StorageKey:  storageKey,
		ContentType: contentType,
		SizeBytes:   size,
	}, nil
}

// RemoveAttachmentFiles deletes stored files best-effort; a file
// already gone from disk is tolerated.
func RemoveAttachmentFiles(basePath string, storageKeys []string) {
	for _, key := range storageKeys {
		if !SafeStorageKey(key) {
			continue
		}
		_ = os.Remove(filepath.Join(basePath, key))
	}
}

func AttachmentDiskPath(basePath, storageKey string) string {
	return filepath.Join(basePath, storageKey)
}

func AttachmentURL(storageKey string) string {
	return "/uploads/" + storageKey
}

// SafeStorageKey rejects anything that could escape the storage
// directory. Generated keys are a uuid plus an extension.
func SafeStorageKey(key string) bool {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return false
	}
	return true
}
