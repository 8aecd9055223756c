package repotest

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/app/services"
)

// namedStorage keeps nothing and references uploads by file name
type namedStorage struct{}

func (namedStorage) Save(_ context.Context, fh *multipart.FileHeader) (string, error) {
	return "/uploads/" + fh.Filename, nil
}

func (namedStorage) Delete(context.Context, string) error { return nil }

// RunContentRoundTripTests checks that a solution added through the editor
// reads back unchanged through the navigator, on any ContentRepository
func RunContentRoundTripTests(t *testing.T, repo repositories.ContentRepository) {
	ctx := context.Background()
	editor := services.NewContentService(repo, namedStorage{}, zerolog.Nop())
	navigator := services.NewNavigatorService(repo, models.NewTaxonomy([]models.Subject{
		{Name: "Mathematics", ExerciseOrganized: true},
	}), zerolog.Nop())

	tests := []struct {
		name string
		form dto.ContentForm
		back string
	}{
		{
			name: "with exercise",
			form: dto.ContentForm{
				ClassLevel:          9,
				Medium:              "Hindi",
				Subject:             "Mathematics",
				ChapterName:         "Round Trip Polynomials",
				Exercise:            "2.3",
				QuestionNumber:      "5a",
				QuestionDescription: "Factorise x^2 - 5x + 6",
				VideoID:             "dQw4w9WgXcQ",
				TextSolution:        "<p>(x - 2)(x - 3)</p>",
			},
			back: "/content/Mathematics/Round%20Trip%20Polynomials/2.3",
		},
		{
			name: "without exercise",
			form: dto.ContentForm{
				ClassLevel:          12,
				Medium:              "English",
				Subject:             "Science",
				ChapterName:         "Round Trip Optics",
				QuestionNumber:      "iv",
				QuestionDescription: "Define focal length",
				VideoID:             "optics-1",
				TextSolution:        "Distance from the lens to the focus.",
			},
			back: "/content/Science/Round%20Trip%20Optics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := tt.form
			created, err := editor.CreateContent(ctx, &form, &multipart.FileHeader{Filename: "q.png"})
			require.NoError(t, err)
			assert.Empty(t, created.Duplicates)

			scope := services.Scope{ClassLevel: tt.form.ClassLevel, Medium: models.Medium(tt.form.Medium)}
			view, err := navigator.GetQuestion(ctx, &scope, created.Content.ID)
			require.NoError(t, err)
			got := view.Content

			assert.Equal(t, created.Content.ID, got.ID)
			assert.Equal(t, tt.form.ClassLevel, got.ClassLevel)
			assert.Equal(t, models.Medium(tt.form.Medium), got.Medium)
			assert.Equal(t, tt.form.Subject, got.Subject)
			assert.Equal(t, tt.form.ChapterName, got.ChapterName)
			assert.Equal(t, tt.form.Exercise, got.ExerciseLabel())
			assert.Equal(t, tt.form.Exercise != "", got.HasExercise())
			assert.Equal(t, tt.form.QuestionNumber, got.QuestionNumber)
			assert.Equal(t, tt.form.QuestionDescription, got.QuestionDescription)
			assert.Equal(t, tt.form.VideoID, got.VideoID)
			assert.Equal(t, tt.form.TextSolution, got.TextSolution)
			assert.Equal(t, "/uploads/q.png", got.ImageRef)
			assert.Equal(t, tt.back, view.BackURL)
		})
	}
}
