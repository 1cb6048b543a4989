package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ExtensionFromContentType подбирает расширение файла для картинки.
func ExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		return "", fmt.Errorf("unsupported image content type: '%s'", contentType)
	}
}

// TeamLogoKey строит ключ объекта для логотипа команды.
func TeamLogoKey(teamID int, contentType string) (string, error) {
	ext, err := ExtensionFromContentType(strings.ToLower(strings.TrimSpace(contentType)))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("teams/%d/logo%s", teamID, ext), nil
}
