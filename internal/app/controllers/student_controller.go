package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/services"
	"github.com/Dinesh259/Free-Solutions/internal/middleware"
)

// StudentController serves the curriculum browsing pages
type StudentController struct {
	navigator *services.NavigatorService
	logger    zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(navigator *services.NavigatorService, logger zerolog.Logger) *StudentController {
	return &StudentController{navigator: navigator, logger: logger}
}

func scopeOf(ctx *gin.Context) services.Scope {
	sess, _ := middleware.GetSession(ctx)
	return services.ScopeOf(sess.User.Profile)
}

// Dashboard lists the subjects
func (c *StudentController) Dashboard(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "student_dashboard.html", page(ctx, "Dashboard", gin.H{
		"subjects": c.navigator.Subjects(),
		"scope":    scopeOf(ctx),
	}))
}

// Chapters lists the chapters of a subject
func (c *StudentController) Chapters(ctx *gin.Context) {
	subject := ctx.Param("subject")

	chapters, err := c.navigator.ListSubjectChapters(ctx.Request.Context(), scopeOf(ctx), subject)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "chapters.html", page(ctx, subject, gin.H{
		"subject":  subject,
		"chapters": chapters,
	}))
}

// ChapterLevel lists the exercises or the questions of a chapter
func (c *StudentController) ChapterLevel(ctx *gin.Context) {
	subject, chapter := ctx.Param("subject"), ctx.Param("chapter")

	level, err := c.navigator.ListChapterLevel(ctx.Request.Context(), scopeOf(ctx), subject, chapter)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	if level.ExerciseOrganized {
		ctx.HTML(http.StatusOK, "exercises.html", page(ctx, chapter, gin.H{
			"subject":   subject,
			"chapter":   chapter,
			"exercises": level.Exercises,
		}))
		return
	}

	ctx.HTML(http.StatusOK, "questions.html", page(ctx, chapter, gin.H{
		"subject":   subject,
		"chapter":   chapter,
		"questions": level.Questions,
	}))
}

// ExerciseQuestions lists the questions of an exercise
func (c *StudentController) ExerciseQuestions(ctx *gin.Context) {
	subject, chapter, exercise := ctx.Param("subject"), ctx.Param("chapter"), ctx.Param("exercise")

	questions, err := c.navigator.ListExerciseQuestions(ctx.Request.Context(), scopeOf(ctx), subject, chapter, exercise)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "questions.html", page(ctx, chapter+" "+exercise, gin.H{
		"subject":   subject,
		"chapter":   chapter,
		"exercise":  exercise,
		"questions": questions,
	}))
}

// Solution shows one solution. Students only see solutions of their own
// class and medium; admins see all.
func (c *StudentController) Solution(ctx *gin.Context) {
	sess, _ := middleware.GetSession(ctx)

	var scope *services.Scope
	if !sess.IsAdmin() {
		s := services.ScopeOf(sess.User.Profile)
		scope = &s
	}

	view, err := c.navigator.GetQuestion(ctx.Request.Context(), scope, ctx.Param("id"))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "solution.html", page(ctx, "Solution", gin.H{
		"content": view.Content,
		"backURL": view.BackURL,
	}))
}
