// Package memory implements map backed identity and content stores. They are
// used by tests and by the "memory" database driver for local development.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/helpers"
)

// NewRepositories returns empty in-memory repositories
func NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:    NewUserRepository(),
		Contents: NewContentRepository(),
		Health:   noopPinger{},
	}
}

type noopPinger struct{}

func (noopPinger) Ping(context.Context) error { return nil }

// UserRepository is a map backed UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewUserRepository creates an empty UserRepository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]models.User)}
}

// Create inserts a new user
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Mobile == user.Mobile {
			return apperrors.ErrMobileAlreadyRegistered
		}
	}

	now := time.Now().UTC()
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

// GetByMobile retrieves a user by mobile number
func (r *UserRepository) GetByMobile(_ context.Context, mobile string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Mobile == mobile })
}

// FindByMobileAndDOB retrieves a user matching both mobile number and date of birth
func (r *UserRepository) FindByMobileAndDOB(_ context.Context, mobile, dob string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Mobile == mobile && u.Profile.DOB == dob })
}

// MobileExists checks if a mobile number is already registered
func (r *UserRepository) MobileExists(ctx context.Context, mobile string) (bool, error) {
	_, err := r.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateProfile replaces the academic profile and marks it complete
func (r *UserRepository) UpdateProfile(_ context.Context, id string, profile models.Profile) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u.Profile = profile
	u.IsProfileComplete = true
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return &u, nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

// ContentRepository is a map backed ContentRepository
type ContentRepository struct {
	mu       sync.RWMutex
	contents map[string]models.Content
	seq      int64
	inserted map[string]int64
	updated  map[string]int64
}

// NewContentRepository creates an empty ContentRepository
func NewContentRepository() *ContentRepository {
	return &ContentRepository{
		contents: make(map[string]models.Content),
		inserted: make(map[string]int64),
		updated:  make(map[string]int64),
	}
}

// Create inserts a new content record
func (r *ContentRepository) Create(_ context.Context, content *models.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	content.ID = uuid.New().String()
	content.Exercise = helpers.NullableString(content.Exercise)
	content.CreatedAt = now
	content.UpdatedAt = now

	r.seq++
	r.inserted[content.ID] = r.seq
	r.updated[content.ID] = r.seq
	r.contents[content.ID] = *content
	return nil
}

// GetByID retrieves a content record by ID
func (r *ContentRepository) GetByID(_ context.Context, id string) (*models.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contents[id]
	if !ok {
		return nil, apperrors.ErrContentNotFound
	}
	return &c, nil
}

// Update replaces all editable fields of a content record
func (r *ContentRepository) Update(_ context.Context, content *models.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.contents[content.ID]
	if !ok {
		return apperrors.ErrContentNotFound
	}

	r.seq++
	r.updated[content.ID] = r.seq
	content.Exercise = helpers.NullableString(content.Exercise)
	content.CreatedAt = existing.CreatedAt
	content.UpdatedAt = time.Now().UTC()
	r.contents[content.ID] = *content
	return nil
}

// Delete removes a content record
func (r *ContentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.contents, id)
	delete(r.inserted, id)
	delete(r.updated, id)
	return nil
}

// snapshot returns matching records in insertion order, or newest update
// first when byUpdate is set
func (r *ContentRepository) snapshot(match func(models.Content) bool, byUpdate bool) []models.Content {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Content, 0)
	for _, c := range r.contents {
		if match == nil || match(c) {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if byUpdate {
			return r.updated[out[i].ID] > r.updated[out[j].ID]
		}
		return r.inserted[out[i].ID] < r.inserted[out[j].ID]
	})
	return out
}

// ListRecent returns content ordered by update time, newest first
func (r *ContentRepository) ListRecent(_ context.Context, offset uint64, limit int) ([]models.Content, int64, error) {
	all := r.snapshot(nil, true)
	total := int64(len(all))
	if limit <= 0 {
		return all, total, nil
	}

	start := int(offset)
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func matches(f repositories.CurriculumFilter, c models.Content) bool {
	if c.ClassLevel != f.ClassLevel || c.Medium != f.Medium || c.Subject != f.Subject {
		return false
	}
	if f.ChapterName != "" && c.ChapterName != f.ChapterName {
		return false
	}
	if f.Exercise != nil && c.ExerciseLabel() != *f.Exercise {
		return false
	}
	return true
}

func distinctSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DistinctChapters lists the chapters available for a class, medium and subject
func (r *ContentRepository) DistinctChapters(_ context.Context, filter repositories.CurriculumFilter) ([]string, error) {
	filter.ChapterName = ""
	filter.Exercise = nil

	var chapters []string
	for _, c := range r.snapshot(func(c models.Content) bool { return matches(filter, c) }, false) {
		chapters = append(chapters, c.ChapterName)
	}
	return distinctSorted(chapters), nil
}

// DistinctExercises lists the non-empty exercise labels of a chapter
func (r *ContentRepository) DistinctExercises(_ context.Context, filter repositories.CurriculumFilter) ([]string, error) {
	filter.Exercise = nil

	var exercises []string
	for _, c := range r.snapshot(func(c models.Content) bool { return matches(filter, c) }, false) {
		exercises = append(exercises, c.ExerciseLabel())
	}
	return distinctSorted(exercises), nil
}

// FindQuestions lists the questions matching a curriculum filter
func (r *ContentRepository) FindQuestions(_ context.Context, filter repositories.CurriculumFilter) ([]models.Content, error) {
	return r.snapshot(func(c models.Content) bool { return matches(filter, c) }, false), nil
}

// ListOutlines returns the medium, chapter and exercise of every record of a subject
func (r *ContentRepository) ListOutlines(_ context.Context, subject string) ([]models.ContentOutline, error) {
	contents := r.snapshot(func(c models.Content) bool { return c.Subject == subject }, false)

	outlines := make([]models.ContentOutline, 0, len(contents))
	for _, c := range contents {
		outlines = append(outlines, models.ContentOutline{
			Medium:      c.Medium,
			ChapterName: c.ChapterName,
			Exercise:    c.Exercise,
		})
	}
	return outlines, nil
}

// FindByCoordinates returns records located at exactly the given coordinates
func (r *ContentRepository) FindByCoordinates(_ context.Context, coords models.Coordinates) ([]models.Content, error) {
	want := ""
	if coords.Exercise != nil {
		want = *coords.Exercise
	}
	return r.snapshot(func(c models.Content) bool {
		return c.ClassLevel == coords.ClassLevel &&
			c.Medium == coords.Medium &&
			c.Subject == coords.Subject &&
			c.ChapterName == coords.ChapterName &&
			c.QuestionNumber == coords.QuestionNumber &&
			c.ExerciseLabel() == want
	}, false), nil
}
