package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/logger"
)

// URLPrefix is the route under which stored files are served
const URLPrefix = "/uploads"

// DefaultAllowedTypes are the image types accepted when none are configured
var DefaultAllowedTypes = []string{"image/jpeg", "image/png"}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath     string
	baseURL      string
	maxFileSize  int64
	allowedTypes []string
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// Returned references are baseURL + URLPrefix + "/" + name; an empty baseURL
// gives site-relative references.
func NewLocalStorage(basePath, baseURL string, maxFileSize int64, allowedTypes []string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if len(allowedTypes) == 0 {
		allowedTypes = DefaultAllowedTypes
	}

	return &LocalStorage{
		basePath:     basePath,
		baseURL:      strings.TrimRight(baseURL, "/"),
		maxFileSize:  maxFileSize,
		allowedTypes: allowedTypes,
	}, nil
}

// BasePath returns the directory files are written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// MaxFileSize returns the per-file size limit in bytes
func (ls *LocalStorage) MaxFileSize() int64 {
	return ls.maxFileSize
}

// Save validates and stores an uploaded image under a random name
func (ls *LocalStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}
	if ls.maxFileSize > 0 && fileHeader.Size > ls.maxFileSize {
		return "", apperrors.ErrPayloadTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), ls.allowedTypes...) {
		logger.Warn().Str("filename", fileHeader.Filename).Str("mime", mtype.String()).Msg("Rejected upload with unsupported type")
		return "", apperrors.ErrUnsupportedFormat
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	name := uuid.New().String() + mtype.Extension()
	dstPath := filepath.Join(ls.basePath, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// the header size can lie, so the copy is capped too
	limit := ls.maxFileSize
	if limit <= 0 {
		limit = fileHeader.Size
	}
	written, err := io.Copy(dst, io.LimitReader(file, limit+1))
	if err == nil && ls.maxFileSize > 0 && written > ls.maxFileSize {
		err = apperrors.ErrPayloadTooLarge
	}
	if err != nil {
		_ = os.Remove(dstPath)
		if errors.Is(err, apperrors.ErrPayloadTooLarge) {
			return "", err
		}
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	ref := ls.baseURL + URLPrefix + "/" + name
	logger.Info().Str("filename", fileHeader.Filename).Str("ref", ref).Msg("File saved successfully")
	return ref, nil
}

// Delete removes a stored file. References that do not point into the
// storage directory are ignored.
func (ls *LocalStorage) Delete(ctx context.Context, ref string) error {
	path := ls.fullPath(ref)
	if path == "" {
		return nil
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", path).Msg("File deleted successfully")
	return nil
}

// fullPath maps a reference produced by Save back to its filesystem path
func (ls *LocalStorage) fullPath(ref string) string {
	rest, ok := strings.CutPrefix(ref, ls.baseURL+URLPrefix+"/")
	if !ok {
		rest, ok = strings.CutPrefix(ref, URLPrefix+"/")
	}
	if !ok || rest == "" || strings.ContainsAny(rest, `/\`) || rest == ".." {
		return ""
	}
	return filepath.Join(ls.basePath, rest)
}
