package models

import (
	"strings"
	"time"
)

// Coordinates locate a question in the curriculum hierarchy
type Coordinates struct {
	ClassLevel     int     `json:"classLevel"`
	Medium         Medium  `json:"medium"`
	Subject        string  `json:"subject"`
	ChapterName    string  `json:"chapterName"`
	Exercise       *string `json:"exercise,omitempty"`
	QuestionNumber string  `json:"questionNumber"`
}

// Content is a single question with its solution, based on the 'contents' table
type Content struct {
	ID                  string    `json:"id" db:"id"`
	ClassLevel          int       `json:"classLevel" db:"class_level"`
	Medium              Medium    `json:"medium" db:"medium"`
	Subject             string    `json:"subject" db:"subject"`
	ChapterName         string    `json:"chapterName" db:"chapter_name"`
	Exercise            *string   `json:"exercise,omitempty" db:"exercise"`
	QuestionNumber      string    `json:"questionNumber" db:"question_number"`
	QuestionDescription string    `json:"questionDescription" db:"question_description"`
	ImageRef            string    `json:"questionImage" db:"question_image"`
	VideoID             string    `json:"videoID" db:"video_id"`
	TextSolution        string    `json:"textSolution" db:"text_solution"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// HasExercise reports whether the content carries a non-empty exercise label
func (c *Content) HasExercise() bool {
	return c.Exercise != nil && *c.Exercise != ""
}

// ExerciseLabel returns the exercise label or an empty string
func (c *Content) ExerciseLabel() string {
	if c.Exercise == nil {
		return ""
	}
	return *c.Exercise
}

// Coordinates returns the curriculum address of the content
func (c *Content) Coordinates() Coordinates {
	return Coordinates{
		ClassLevel:     c.ClassLevel,
		Medium:         c.Medium,
		Subject:        c.Subject,
		ChapterName:    c.ChapterName,
		Exercise:       c.Exercise,
		QuestionNumber: c.QuestionNumber,
	}
}

// ContentOutline is the (medium, chapter, exercise) projection of a content record
type ContentOutline struct {
	Medium      Medium  `json:"medium"`
	ChapterName string  `json:"chapterName"`
	Exercise    *string `json:"exercise,omitempty"`
}

// NormalizeExercise trims an exercise label and maps the empty label to nil
func NormalizeExercise(exercise string) *string {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return nil
	}
	return &exercise
}
