package catalog

import (
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
)

// MaxImageFileNameLength bounds the client supplied file name
const MaxImageFileNameLength = 255

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// IsAllowedImageType reports whether contentType may be uploaded as an item image
func IsAllowedImageType(contentType string) bool {
	_, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ok
}

// ImageStorageKey builds the object key for an uploaded item image:
// items/{owner}/{random}{ext}. The client file name only contributes a sanitized stem.
func ImageStorageKey(ownerID uuid.UUID, fileName, contentType string) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", shared.NewDomainError(shared.CodeValidation, "Only jpeg, png, gif and webp images can be uploaded")
	}
	if strings.TrimSpace(fileName) == "" {
		return "", shared.NewDomainError(shared.CodeValidation, "File name cannot be empty")
	}
	if len(fileName) > MaxImageFileNameLength {
		return "", shared.NewDomainError(shared.CodeValidation, "File name is too long")
	}

	stem := sanitizeStem(strings.TrimSuffix(path.Base(fileName), path.Ext(fileName)))
	key := "items/" + ownerID.String() + "/" + uuid.NewString()
	if stem != "" {
		key += "-" + stem
	}
	return key + ext, nil
}

func sanitizeStem(stem string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
		if b.Len() >= 64 {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
