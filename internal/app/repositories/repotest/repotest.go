// Package repotest holds the behaviour every storage driver must share. Each
// driver package runs the suites against its own repositories.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

// MissingID is an ID no driver ever assigns
const MissingID = "00000000-0000-0000-0000-000000000000"

func ptr(s string) *string { return &s }

// RunUserRepositoryTests exercises an empty UserRepository
func RunUserRepositoryTests(t *testing.T, repo repositories.UserRepository) {
	ctx := context.Background()

	user := &models.User{
		Mobile:       "9876543210",
		PasswordHash: "hash",
		Profile: models.Profile{
			Name:       "Asha",
			DOB:        "2009-05-01",
			ClassLevel: 10,
			Medium:     models.MediumEnglish,
		},
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("duplicate mobile", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Mobile: "9876543210", PasswordHash: "other"})
		assert.ErrorIs(t, err, apperrors.ErrMobileAlreadyRegistered)
	})

	t.Run("lookups", func(t *testing.T) {
		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha", byID.Profile.Name)

		byMobile, err := repo.GetByMobile(ctx, "9876543210")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byMobile.ID)

		_, err = repo.GetByMobile(ctx, "1111111111")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		_, err = repo.GetByID(ctx, MissingID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

		exists, err := repo.MobileExists(ctx, "9876543210")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repo.MobileExists(ctx, "1111111111")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("mobile and dob", func(t *testing.T) {
		found, err := repo.FindByMobileAndDOB(ctx, "9876543210", "2009-05-01")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = repo.FindByMobileAndDOB(ctx, "9876543210", "2009-05-02")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("update profile", func(t *testing.T) {
		updated, err := repo.UpdateProfile(ctx, user.ID, models.Profile{
			Name:       "Asha K",
			DOB:        "2009-05-01",
			ClassLevel: 11,
			Medium:     models.MediumHindi,
			Gender:     models.GenderFemale,
			SchoolName: "GHS",
		})
		require.NoError(t, err)
		assert.True(t, updated.IsProfileComplete)
		assert.Equal(t, 11, updated.Profile.ClassLevel)
		assert.Equal(t, models.MediumHindi, updated.Profile.Medium)

		_, err = repo.UpdateProfile(ctx, MissingID, models.Profile{})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("update password", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		assert.ErrorIs(t, repo.UpdatePassword(ctx, MissingID, "x"), apperrors.ErrUserNotFound)
	})
}

func newContent(chapter string, exercise *string, question string) *models.Content {
	return &models.Content{
		ClassLevel:     10,
		Medium:         models.MediumEnglish,
		Subject:        "Mathematics",
		ChapterName:    chapter,
		Exercise:       exercise,
		QuestionNumber: question,
		VideoID:        "vid",
		TextSolution:   "solution",
	}
}

// RunContentRepositoryTests exercises an empty ContentRepository
func RunContentRepositoryTests(t *testing.T, repo repositories.ContentRepository) {
	ctx := context.Background()
	scope := repositories.CurriculumFilter{ClassLevel: 10, Medium: models.MediumEnglish, Subject: "Mathematics"}

	first := newContent("Triangles", ptr("6.1"), "1")
	second := newContent("Triangles", ptr("6.2"), "1")
	third := newContent("Real Numbers", nil, "1")
	other := newContent("Triangles", ptr("6.1"), "1")
	other.Medium = models.MediumHindi

	for _, c := range []*models.Content{first, second, third, other} {
		require.NoError(t, repo.Create(ctx, c))
		require.NotEmpty(t, c.ID)
		// keep timestamps apart for ordering
		time.Sleep(2 * time.Millisecond)
	}

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Triangles", got.ChapterName)
		require.NotNil(t, got.Exercise)
		assert.Equal(t, "6.1", *got.Exercise)

		got, err = repo.GetByID(ctx, third.ID)
		require.NoError(t, err)
		assert.False(t, got.HasExercise())

		_, err = repo.GetByID(ctx, MissingID)
		assert.ErrorIs(t, err, apperrors.ErrContentNotFound)
		_, err = repo.GetByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, apperrors.ErrContentNotFound)
	})

	t.Run("navigation", func(t *testing.T) {
		chapters, err := repo.DistinctChapters(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, []string{"Real Numbers", "Triangles"}, chapters)

		chapterScope := scope
		chapterScope.ChapterName = "Triangles"
		exercises, err := repo.DistinctExercises(ctx, chapterScope)
		require.NoError(t, err)
		assert.Equal(t, []string{"6.1", "6.2"}, exercises)

		chapterScope.ChapterName = "Real Numbers"
		exercises, err = repo.DistinctExercises(ctx, chapterScope)
		require.NoError(t, err)
		assert.Empty(t, exercises)

		exerciseScope := scope
		exerciseScope.ChapterName = "Triangles"
		exerciseScope.Exercise = ptr("6.1")
		questions, err := repo.FindQuestions(ctx, exerciseScope)
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, first.ID, questions[0].ID)
	})

	t.Run("coordinates", func(t *testing.T) {
		found, err := repo.FindByCoordinates(ctx, first.Coordinates())
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, first.ID, found[0].ID)

		found, err = repo.FindByCoordinates(ctx, third.Coordinates())
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, third.ID, found[0].ID)
	})

	t.Run("outlines", func(t *testing.T) {
		outlines, err := repo.ListOutlines(ctx, "Mathematics")
		require.NoError(t, err)
		assert.Len(t, outlines, 4)

		outlines, err = repo.ListOutlines(ctx, "Science")
		require.NoError(t, err)
		assert.Empty(t, outlines)
	})

	t.Run("update and list recent", func(t *testing.T) {
		edited := *first
		edited.QuestionNumber = "2"
		edited.Exercise = nil
		require.NoError(t, repo.Update(ctx, &edited))

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "2", got.QuestionNumber)
		assert.False(t, got.HasExercise())

		items, total, err := repo.ListRecent(ctx, 0, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		require.Len(t, items, 2)
		assert.Equal(t, first.ID, items[0].ID)

		all, _, err := repo.ListRecent(ctx, 0, 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		missing := *first
		missing.ID = MissingID
		assert.ErrorIs(t, repo.Update(ctx, &missing), apperrors.ErrContentNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, second.ID))
		require.NoError(t, repo.Delete(ctx, second.ID))
		require.NoError(t, repo.Delete(ctx, "not-an-id"))

		_, err := repo.GetByID(ctx, second.ID)
		assert.ErrorIs(t, err, apperrors.ErrContentNotFound)
	})
}
