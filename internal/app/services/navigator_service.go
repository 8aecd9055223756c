package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

// Scope is the (class, medium) slice of the curriculum a student may browse
type Scope struct {
	ClassLevel int
	Medium     models.Medium
}

// ScopeOf returns the browsing scope of a student profile
func ScopeOf(p models.Profile) Scope {
	return Scope{ClassLevel: p.ClassLevel, Medium: p.Medium}
}

// Contains reports whether content lies inside the scope
func (s Scope) Contains(c *models.Content) bool {
	return c.ClassLevel == s.ClassLevel && c.Medium == s.Medium
}

func (s Scope) filter(subject, chapter string, exercise *string) repositories.CurriculumFilter {
	return repositories.CurriculumFilter{
		ClassLevel:  s.ClassLevel,
		Medium:      s.Medium,
		Subject:     subject,
		ChapterName: chapter,
		Exercise:    exercise,
	}
}

// ChapterLevel is the listing below a chapter: exercise labels for
// exercise-organized subjects, questions otherwise
type ChapterLevel struct {
	ExerciseOrganized bool
	Exercises         []string
	Questions         []models.Content
}

// QuestionView is a single solution with the page it was reached from
type QuestionView struct {
	Content *models.Content
	BackURL string
}

// NavigatorService walks the curriculum hierarchy within a student's scope
type NavigatorService struct {
	contentRepo repositories.ContentRepository
	taxonomy    *models.Taxonomy
	logger      zerolog.Logger
}

// NewNavigatorService creates a new NavigatorService
func NewNavigatorService(contentRepo repositories.ContentRepository, taxonomy *models.Taxonomy, logger zerolog.Logger) *NavigatorService {
	return &NavigatorService{
		contentRepo: contentRepo,
		taxonomy:    taxonomy,
		logger:      logger,
	}
}

// Subjects returns the configured subjects
func (s *NavigatorService) Subjects() []models.Subject {
	return s.taxonomy.Subjects()
}

// ListSubjectChapters returns the distinct chapters of a subject in scope
func (s *NavigatorService) ListSubjectChapters(ctx context.Context, scope Scope, subject string) ([]string, error) {
	chapters, err := s.contentRepo.DistinctChapters(ctx, scope.filter(subject, "", nil))
	if err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Msg("Error listing chapters")
		return nil, fmt.Errorf("error listing chapters: %w", err)
	}
	return chapters, nil
}

// ListChapterLevel returns the exercises of a chapter when the subject is
// exercise-organized and its questions otherwise
func (s *NavigatorService) ListChapterLevel(ctx context.Context, scope Scope, subject, chapter string) (*ChapterLevel, error) {
	if s.taxonomy.IsExerciseOrganized(subject) {
		exercises, err := s.contentRepo.DistinctExercises(ctx, scope.filter(subject, chapter, nil))
		if err != nil {
			s.logger.Error().Err(err).Str("subject", subject).Str("chapter", chapter).Msg("Error listing exercises")
			return nil, fmt.Errorf("error listing exercises: %w", err)
		}
		return &ChapterLevel{ExerciseOrganized: true, Exercises: exercises}, nil
	}

	questions, err := s.contentRepo.FindQuestions(ctx, scope.filter(subject, chapter, nil))
	if err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Str("chapter", chapter).Msg("Error listing questions")
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	return &ChapterLevel{Questions: questions}, nil
}

// ListExerciseQuestions returns the questions of one exercise of a chapter
func (s *NavigatorService) ListExerciseQuestions(ctx context.Context, scope Scope, subject, chapter, exercise string) ([]models.Content, error) {
	questions, err := s.contentRepo.FindQuestions(ctx, scope.filter(subject, chapter, &exercise))
	if err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Str("chapter", chapter).Str("exercise", exercise).Msg("Error listing exercise questions")
		return nil, fmt.Errorf("error listing exercise questions: %w", err)
	}
	return questions, nil
}

// GetQuestion returns a solution and its back link. A nil scope allows any
// record; otherwise records outside the scope are reported as not found.
func (s *NavigatorService) GetQuestion(ctx context.Context, scope *Scope, id string) (*QuestionView, error) {
	content, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scope != nil && !scope.Contains(content) {
		return nil, apperrors.ErrContentNotFound
	}
	return &QuestionView{Content: content, BackURL: BackURL(content)}, nil
}

// BackURL returns the listing page a solution belongs to
func BackURL(c *models.Content) string {
	u := "/content/" + url.PathEscape(c.Subject) + "/" + url.PathEscape(c.ChapterName)
	if c.HasExercise() {
		u += "/" + url.PathEscape(*c.Exercise)
	}
	return u
}
