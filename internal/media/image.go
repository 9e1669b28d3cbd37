// Package media decodes uploaded recipe images and stores them.
package media

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/apperr"
)

// MaxImageSize bounds decoded images.
const MaxImageSize = 5 << 20

// Upload is a decoded image ready to be stored.
type Upload struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURI parses "data:image/<ext>;base64,<payload>". The payload must
// sniff as an image; its detected type wins over the declared one.
func DecodeDataURI(field, s string) (*Upload, error) {
	header, payload, ok := strings.Cut(s, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:image/") {
		return nil, apperr.Validation(field, "Upload a valid image as a base64 data URI.")
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return nil, apperr.Validation(field, "The image is too large.")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.Validation(field, "The image is not valid base64.")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, apperr.Validation(field, "Upload a valid image. The file is not an image or is corrupted.")
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = "." + strings.TrimPrefix(header, "data:image/")
	}
	return &Upload{Data: data, ContentType: mtype.String(), Ext: ext}, nil
}

// NewKey returns a fresh object key for a recipe image.
func NewKey(u *Upload) string {
	return "recipes/" + uuid.NewString() + u.Ext
}
