package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
)

// ContentForm represents the admin add/edit solution form
type ContentForm struct {
	ClassLevel          int    `form:"classLevel" label:"Class" binding:"required,min=6,max=12"`
	Medium              string `form:"medium" label:"Medium" binding:"required,oneof=Hindi English"`
	Subject             string `form:"subject" label:"Subject" binding:"required,max=100"`
	ChapterName         string `form:"chapterName" label:"Chapter Name" binding:"required,max=200"`
	Exercise            string `form:"exercise" label:"Exercise" binding:"omitempty,max=50"`
	QuestionNumber      string `form:"questionNumber" label:"Question Number" binding:"required,max=50"`
	QuestionDescription string `form:"questionDescription"`
	VideoID             string `form:"videoID" label:"Video ID" binding:"omitempty,max=100"`
	TextSolution        string `form:"textSolution"`
}

// PreservedFields lists the text fields carried back to the form after a
// failed upload
var PreservedFields = []string{
	"classLevel", "medium", "subject", "chapterName", "exercise",
	"questionNumber", "questionDescription", "videoID", "textSolution",
}

// Normalize trims the coordinate fields
func (f *ContentForm) Normalize() {
	f.Subject = strings.TrimSpace(f.Subject)
	f.ChapterName = strings.TrimSpace(f.ChapterName)
	f.Exercise = strings.TrimSpace(f.Exercise)
	f.QuestionNumber = strings.TrimSpace(f.QuestionNumber)
	f.VideoID = strings.TrimSpace(f.VideoID)
}

// Apply copies the form onto content. The image reference is left untouched.
func (f *ContentForm) Apply(content *models.Content) {
	content.ClassLevel = f.ClassLevel
	content.Medium = models.Medium(f.Medium)
	content.Subject = f.Subject
	content.ChapterName = f.ChapterName
	content.Exercise = models.NormalizeExercise(f.Exercise)
	content.QuestionNumber = f.QuestionNumber
	content.QuestionDescription = f.QuestionDescription
	content.VideoID = f.VideoID
	content.TextSolution = f.TextSolution
}

// Coordinates returns the curriculum address described by the form
func (f *ContentForm) Coordinates() models.Coordinates {
	return models.Coordinates{
		ClassLevel:     f.ClassLevel,
		Medium:         models.Medium(f.Medium),
		Subject:        f.Subject,
		ChapterName:    f.ChapterName,
		Exercise:       models.NormalizeExercise(f.Exercise),
		QuestionNumber: f.QuestionNumber,
	}
}

// ContentFormFromValues rebuilds a form from query or post values, ignoring
// malformed numbers. It is used to refill the upload form.
func ContentFormFromValues(values url.Values) ContentForm {
	level, _ := strconv.Atoi(values.Get("classLevel"))
	return ContentForm{
		ClassLevel:          level,
		Medium:              values.Get("medium"),
		Subject:             values.Get("subject"),
		ChapterName:         values.Get("chapterName"),
		Exercise:            values.Get("exercise"),
		QuestionNumber:      values.Get("questionNumber"),
		QuestionDescription: values.Get("questionDescription"),
		VideoID:             values.Get("videoID"),
		TextSolution:        values.Get("textSolution"),
	}
}

// ContentFormOf fills a form from an existing record
func ContentFormOf(c *models.Content) ContentForm {
	return ContentForm{
		ClassLevel:          c.ClassLevel,
		Medium:              string(c.Medium),
		Subject:             c.Subject,
		ChapterName:         c.ChapterName,
		Exercise:            c.ExerciseLabel(),
		QuestionNumber:      c.QuestionNumber,
		QuestionDescription: c.QuestionDescription,
		VideoID:             c.VideoID,
		TextSolution:        c.TextSolution,
	}
}
