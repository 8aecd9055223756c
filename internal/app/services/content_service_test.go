package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

func contentForm() *dto.ContentForm {
	return &dto.ContentForm{
		ClassLevel:          10,
		Medium:              "English",
		Subject:             " Mathematics ",
		ChapterName:         "Triangles",
		Exercise:            "6.1",
		QuestionNumber:      "3",
		QuestionDescription: "Prove that the triangles are similar.",
		VideoID:             "dQw4w9WgXcQ",
		TextSolution:        "<p>By AA similarity.</p>",
	}
}

func TestCreateContentReportsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.content.CreateContent(ctx, contentForm(), &multipart.FileHeader{Filename: "q3.png"})
	require.NoError(t, err)
	assert.Empty(t, first.Duplicates)
	assert.Equal(t, "Mathematics", first.Content.Subject)
	assert.Equal(t, "/uploads/q3.png", first.Content.ImageRef)
	assert.Equal(t, "6.1", first.Content.ExerciseLabel())

	second, err := f.content.CreateContent(ctx, contentForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{first.Content.ID}, second.Duplicates)
	assert.Empty(t, second.Content.ImageRef)

	// a different exercise is a different address
	other := contentForm()
	other.Exercise = ""
	third, err := f.content.CreateContent(ctx, other, nil)
	require.NoError(t, err)
	assert.Empty(t, third.Duplicates)
	assert.Nil(t, third.Content.Exercise)
}

func TestCreateContentRejectedUpload(t *testing.T) {
	f := newFixture(t)
	f.storage.err = apperrors.ErrPayloadTooLarge

	_, err := f.content.CreateContent(context.Background(), contentForm(), &multipart.FileHeader{Filename: "big.png"})
	assert.ErrorIs(t, err, apperrors.ErrPayloadTooLarge)

	items, total, err := f.repos.Contents.ListRecent(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestUpdateContentReplacesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.content.CreateContent(ctx, contentForm(), &multipart.FileHeader{Filename: "q3.png"})
	require.NoError(t, err)

	edit := contentForm()
	edit.ChapterName = "Similar Triangles"
	edit.Exercise = ""
	edit.QuestionDescription = ""
	updated, err := f.content.UpdateContent(ctx, created.Content.ID, edit, nil)
	require.NoError(t, err)
	assert.Equal(t, "Similar Triangles", updated.ChapterName)
	assert.Nil(t, updated.Exercise)
	assert.Empty(t, updated.QuestionDescription)
	assert.Equal(t, "/uploads/q3.png", updated.ImageRef)

	replaced, err := f.content.UpdateContent(ctx, created.Content.ID, contentForm(), &multipart.FileHeader{Filename: "q3-v2.png"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/q3-v2.png", replaced.ImageRef)
	assert.Equal(t, []string{"/uploads/q3.png"}, f.storage.deleted)

	_, err = f.content.UpdateContent(ctx, "missing", contentForm(), nil)
	assert.ErrorIs(t, err, apperrors.ErrContentNotFound)
}

func TestDeleteContentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.content.CreateContent(ctx, contentForm(), &multipart.FileHeader{Filename: "q3.png"})
	require.NoError(t, err)

	require.NoError(t, f.content.DeleteContent(ctx, created.Content.ID))
	assert.Equal(t, []string{"/uploads/q3.png"}, f.storage.deleted)

	_, err = f.content.GetContent(ctx, created.Content.ID)
	assert.ErrorIs(t, err, apperrors.ErrContentNotFound)

	assert.NoError(t, f.content.DeleteContent(ctx, created.Content.ID))
	assert.NoError(t, f.content.DeleteContent(ctx, "never-existed"))
}

func TestListContentPaginatesNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for _, q := range []string{"1", "2", "3"} {
		form := contentForm()
		form.QuestionNumber = q
		res, err := f.content.CreateContent(ctx, form, nil)
		require.NoError(t, err)
		ids = append(ids, res.Content.ID)
	}
	// touching the oldest record moves it to the top
	_, err := f.content.UpdateContent(ctx, ids[0], contentForm(), nil)
	require.NoError(t, err)

	page, err := f.content.ListContent(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[0], page.Items[0].ID)
	assert.Equal(t, ids[2], page.Items[1].ID)
	assert.Equal(t, 2, page.Page.TotalPages)
	assert.True(t, page.Page.HasNext())

	page, err = f.content.ListContent(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[1], page.Items[0].ID)
	assert.False(t, page.Page.HasNext())
}

func TestBuildEditSuggestionMap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addContent(t, models.Content{ClassLevel: 10, Medium: models.MediumEnglish, Subject: "Mathematics", ChapterName: "Triangles", Exercise: ptr("6.2"), QuestionNumber: "1"})
	f.addContent(t, models.Content{ClassLevel: 10, Medium: models.MediumEnglish, Subject: "Mathematics", ChapterName: "Triangles", Exercise: ptr("6.1"), QuestionNumber: "1"})
	f.addContent(t, models.Content{ClassLevel: 9, Medium: models.MediumEnglish, Subject: "Mathematics", ChapterName: "Triangles", Exercise: ptr("6.1"), QuestionNumber: "2"})
	f.addContent(t, models.Content{ClassLevel: 10, Medium: models.MediumHindi, Subject: "Mathematics", ChapterName: "Triangles", Exercise: ptr("6.1"), QuestionNumber: "1"})
	f.addContent(t, models.Content{ClassLevel: 10, Medium: models.MediumHindi, Subject: "Mathematics", ChapterName: "Probability", QuestionNumber: "1"})
	f.addContent(t, models.Content{ClassLevel: 10, Medium: models.Medium("Urdu"), Subject: "Mathematics", ChapterName: "Ignored", Exercise: ptr("1.1"), QuestionNumber: "1"})
	f.addContent(t, models.Content{ClassLevel: 10, Medium: models.MediumEnglish, Subject: "Science", ChapterName: "Light", QuestionNumber: "1"})

	got, err := f.content.BuildEditSuggestionMap(ctx, "Mathematics")
	require.NoError(t, err)

	want := SuggestionMap{
		models.MediumEnglish: {"Triangles": {"6.1", "6.2"}},
		models.MediumHindi:   {"Triangles": {"6.1"}, "Probability": {}},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"Probability", "Triangles"}, got.Chapters(models.MediumHindi))

	empty, err := f.content.BuildEditSuggestionMap(ctx, "History")
	require.NoError(t, err)
	assert.Equal(t, SuggestionMap{models.MediumEnglish: {}, models.MediumHindi: {}}, empty)
}

func TestExportContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.content.CreateContent(ctx, contentForm(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := f.export.ExportContent(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ExportColumns, rows[0])
	assert.Equal(t, "10", rows[1][1])
	assert.Equal(t, "Triangles", rows[1][4])
	assert.Equal(t, "6.1", rows[1][5])
}
