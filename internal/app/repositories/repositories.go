package repositories

import (
	"context"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
)

// UserRepository defines the identity store operations
type UserRepository interface {
	// Create assigns an ID and timestamps to user and persists it.
	// A taken mobile number yields apperrors.ErrMobileAlreadyRegistered.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByMobile(ctx context.Context, mobile string) (*models.User, error)
	FindByMobileAndDOB(ctx context.Context, mobile, dob string) (*models.User, error)
	MobileExists(ctx context.Context, mobile string) (bool, error)

	// UpdateProfile replaces the academic profile and marks it complete
	UpdateProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// CurriculumFilter selects content by its coordinates. Empty ChapterName
// matches any chapter and a nil Exercise matches any exercise.
type CurriculumFilter struct {
	ClassLevel  int
	Medium      models.Medium
	Subject     string
	ChapterName string
	Exercise    *string
}

// ContentRepository defines the content store operations
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id string) (*models.Content, error)
	// Update replaces every field of the stored record with content's
	Update(ctx context.Context, content *models.Content) error
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// ListRecent returns records ordered by last update, newest first, along
	// with the total count. A limit of zero returns every record.
	ListRecent(ctx context.Context, offset uint64, limit int) ([]models.Content, int64, error)

	DistinctChapters(ctx context.Context, filter CurriculumFilter) ([]string, error)
	// DistinctExercises returns the non-empty exercise labels of a chapter
	DistinctExercises(ctx context.Context, filter CurriculumFilter) ([]string, error)
	FindQuestions(ctx context.Context, filter CurriculumFilter) ([]models.Content, error)

	// ListOutlines returns the (medium, chapter, exercise) projection of every
	// record of a subject
	ListOutlines(ctx context.Context, subject string) ([]models.ContentOutline, error)
	// FindByCoordinates returns records sharing all coordinates, including
	// question number. A nil exercise matches records without exercise.
	FindByCoordinates(ctx context.Context, coords models.Coordinates) ([]models.Content, error)
}

// Pinger is implemented by stores able to report backend health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Repositories holds all the repository instances of one storage driver
type Repositories struct {
	Users    UserRepository
	Contents ContentRepository
	Health   Pinger
}
