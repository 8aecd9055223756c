package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/filestorage"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/helpers"
)

// SuggestionMap maps medium to chapter to the sorted exercise labels of that
// chapter. It feeds the dependent dropdowns of the edit form.
type SuggestionMap map[models.Medium]map[string][]string

// CreateResult is the outcome of adding a solution. Duplicates lists the IDs
// of older records at the same coordinates.
type CreateResult struct {
	Content    *models.Content
	Duplicates []string
}

// ContentPage is one page of the admin listing
type ContentPage struct {
	Items []models.Content
	Page  helpers.PageInfo
}

// ContentService implements the admin content editor
type ContentService struct {
	contentRepo repositories.ContentRepository
	storage     filestorage.ObjectStorage
	logger      zerolog.Logger
}

// NewContentService creates a new ContentService
func NewContentService(contentRepo repositories.ContentRepository, storage filestorage.ObjectStorage, logger zerolog.Logger) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		storage:     storage,
		logger:      logger,
	}
}

// saveImage stores an optional upload and returns its reference
func (s *ContentService) saveImage(ctx context.Context, image *multipart.FileHeader) (string, error) {
	if image == nil || s.storage == nil {
		return "", nil
	}
	ref, err := s.storage.Save(ctx, image)
	if err != nil {
		if errors.Is(err, apperrors.ErrPayloadTooLarge) || errors.Is(err, apperrors.ErrUnsupportedFormat) {
			return "", err
		}
		s.logger.Error().Err(err).Str("filename", image.Filename).Msg("Failed to store question image")
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}

// deleteImage removes a stored image, logging failures only
func (s *ContentService) deleteImage(ctx context.Context, ref string) {
	if ref == "" || s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, ref); err != nil {
		s.logger.Warn().Err(err).Str("ref", ref).Msg("Failed to delete question image")
	}
}

// CreateContent stores a new solution. Records already present at the same
// coordinates are reported, not rejected.
func (s *ContentService) CreateContent(ctx context.Context, form *dto.ContentForm, image *multipart.FileHeader) (*CreateResult, error) {
	form.Normalize()

	ref, err := s.saveImage(ctx, image)
	if err != nil {
		return nil, err
	}

	duplicates, err := s.FindDuplicates(ctx, form.Coordinates(), "")
	if err != nil {
		s.deleteImage(ctx, ref)
		return nil, err
	}

	content := &models.Content{ImageRef: ref}
	form.Apply(content)
	if err := s.contentRepo.Create(ctx, content); err != nil {
		s.deleteImage(ctx, ref)
		s.logger.Error().Err(err).Msg("Error creating content")
		return nil, fmt.Errorf("error creating content: %w", err)
	}

	s.logger.Info().Str("contentID", content.ID).Int("duplicates", len(duplicates)).Msg("Content created")
	return &CreateResult{Content: content, Duplicates: duplicates}, nil
}

// GetContent returns a solution by ID
func (s *ContentService) GetContent(ctx context.Context, id string) (*models.Content, error) {
	return s.contentRepo.GetByID(ctx, id)
}

// UpdateContent replaces every form field of a solution. The image is only
// replaced when a new one is uploaded.
func (s *ContentService) UpdateContent(ctx context.Context, id string, form *dto.ContentForm, image *multipart.FileHeader) (*models.Content, error) {
	form.Normalize()

	content, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ref, err := s.saveImage(ctx, image)
	if err != nil {
		return nil, err
	}

	oldRef := content.ImageRef
	form.Apply(content)
	if ref != "" {
		content.ImageRef = ref
	}

	if err := s.contentRepo.Update(ctx, content); err != nil {
		s.deleteImage(ctx, ref)
		if errors.Is(err, apperrors.ErrContentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating content: %w", err)
	}
	if ref != "" && oldRef != ref {
		s.deleteImage(ctx, oldRef)
	}

	s.logger.Info().Str("contentID", id).Msg("Content updated")
	return content, nil
}

// DeleteContent removes a solution and its image. Missing records are ignored.
func (s *ContentService) DeleteContent(ctx context.Context, id string) error {
	content, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrContentNotFound) {
			return nil
		}
		return err
	}

	if err := s.contentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting content: %w", err)
	}
	s.deleteImage(ctx, content.ImageRef)

	s.logger.Info().Str("contentID", id).Msg("Content deleted")
	return nil
}

// ListContent returns a page of solutions, most recently updated first
func (s *ContentService) ListContent(ctx context.Context, page, size int) (*ContentPage, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	items, total, err := s.contentRepo.ListRecent(ctx, offset, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing content")
		return nil, fmt.Errorf("error listing content: %w", err)
	}
	return &ContentPage{Items: items, Page: helpers.NewPageInfo(total, page, limit)}, nil
}

// FindDuplicates returns the IDs of records at exactly the given coordinates,
// leaving out excludeID
func (s *ContentService) FindDuplicates(ctx context.Context, coords models.Coordinates, excludeID string) ([]string, error) {
	matches, err := s.contentRepo.FindByCoordinates(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("error checking duplicates: %w", err)
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.ID != excludeID {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

// BuildEditSuggestionMap groups the chapters and exercises of a subject by
// medium. Every known medium is present, records of unknown media are
// skipped and chapters without exercises map to an empty list.
func (s *ContentService) BuildEditSuggestionMap(ctx context.Context, subject string) (SuggestionMap, error) {
	outlines, err := s.contentRepo.ListOutlines(ctx, subject)
	if err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Msg("Error loading outlines")
		return nil, fmt.Errorf("error loading outlines: %w", err)
	}
	return BuildSuggestionMap(outlines), nil
}

// BuildSuggestionMap groups outlines medium -> chapter -> sorted distinct
// non-empty exercises
func BuildSuggestionMap(outlines []models.ContentOutline) SuggestionMap {
	sets := make(map[models.Medium]map[string]map[string]struct{}, len(models.Media))
	for _, m := range models.Media {
		sets[m] = make(map[string]map[string]struct{})
	}

	for _, o := range outlines {
		chapters, ok := sets[o.Medium]
		if !ok {
			continue
		}
		exercises, ok := chapters[o.ChapterName]
		if !ok {
			exercises = make(map[string]struct{})
			chapters[o.ChapterName] = exercises
		}
		if o.Exercise != nil && *o.Exercise != "" {
			exercises[*o.Exercise] = struct{}{}
		}
	}

	out := make(SuggestionMap, len(sets))
	for medium, chapters := range sets {
		byChapter := make(map[string][]string, len(chapters))
		for chapter, set := range chapters {
			list := make([]string, 0, len(set))
			for ex := range set {
				list = append(list, ex)
			}
			sort.Strings(list)
			byChapter[chapter] = list
		}
		out[medium] = byChapter
	}
	return out
}

// Chapters returns the chapter names of a medium in lexical order
func (m SuggestionMap) Chapters(medium models.Medium) []string {
	chapters := make([]string, 0, len(m[medium]))
	for c := range m[medium] {
		chapters = append(chapters, c)
	}
	sort.Strings(chapters)
	return chapters
}
