package filestorage

import (
	"context"
	"mime/multipart"
)

// ObjectStorage stores uploaded question images
type ObjectStorage interface {
	// Save stores the uploaded file and returns the reference under which it
	// can be served. Oversized files yield apperrors.ErrPayloadTooLarge and
	// files of a disallowed type apperrors.ErrUnsupportedFormat.
	Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// Delete removes a previously stored file. Unknown references are ignored.
	Delete(ctx context.Context, ref string) error
}
