package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_storage.go -package=mocks alcyxob/routine-tracker/internal/storage FileStorage

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// RoutineVideoKey builds the object key of a video attached to a routine:
// routines/<owner>/<routine>/<uuid><ext>. Only the extension of fileName is kept.
func RoutineVideoKey(ownerUserID, routineID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s%s%s", routineVideoPrefix(ownerUserID, routineID), uuid.NewString(), ext)
}

func routineVideoPrefix(ownerUserID, routineID string) string {
	return fmt.Sprintf("routines/%s/%s/", ownerUserID, routineID)
}

// ParseRoutineVideoKey splits a key built by RoutineVideoKey into its owner and
// routine segments. ok is false for anything else.
func ParseRoutineVideoKey(key string) (ownerUserID, routineID string, ok bool) {
	parts := strings.SplitN(key, "/", 4)
	if len(parts) != 4 || parts[0] != "routines" {
		return "", "", false
	}
	for _, part := range parts[1:] {
		if part == "" || part == "." || part == ".." {
			return "", "", false
		}
	}
	if strings.Contains(parts[3], "/") {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// IsExternalURL reports whether a stored video reference is an absolute link
// rather than an object key.
func IsExternalURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
