package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/app/services"
	"github.com/Dinesh259/Free-Solutions/internal/middleware"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/session"
)

// ProfileController handles the profile pages
type ProfileController struct {
	authService *services.AuthService
	sessions    *session.Manager
	binder      *middleware.FormBinder
	logger      zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(authService *services.AuthService, sessions *session.Manager, binder *middleware.FormBinder, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		authService: authService,
		sessions:    sessions,
		binder:      binder,
		logger:      logger,
	}
}

// ShowCompleteProfile renders the profile completion form
func (c *ProfileController) ShowCompleteProfile(ctx *gin.Context) {
	sess, _ := middleware.GetSession(ctx)
	if sess.IsAdmin() {
		ctx.Redirect(http.StatusFound, middleware.AdminDashboardPath)
		return
	}
	c.renderCompleteProfile(ctx, http.StatusOK, profileFormOf(sess.User.Profile), "")
}

func (c *ProfileController) renderCompleteProfile(ctx *gin.Context, status int, form dto.ProfileRequest, errMsg string) {
	ctx.HTML(status, "complete_profile.html", page(ctx, "Complete Profile", gin.H{
		"form":        form,
		"error":       errMsg,
		"classLevels": models.ClassLevels(),
		"media":       models.Media,
	}))
}

// UpdateProfile stores the submitted profile and refreshes the session copy
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	sess, _ := middleware.GetSession(ctx)

	var req dto.ProfileRequest
	if err := c.binder.Bind(ctx, &req); err != nil {
		c.renderCompleteProfile(ctx, http.StatusBadRequest, req, apperrors.UserMessage(err, "Please check the form and try again."))
		return
	}

	user, err := c.authService.CompleteProfile(ctx.Request.Context(), sess.UserID, &req)
	if err != nil {
		c.logger.Error().Err(err).Str("userID", sess.UserID).Msg("Profile update failed")
		middleware.HandleError(ctx, err)
		return
	}

	if err := c.sessions.Refresh(ctx.Request.Context(), sess, user); err != nil {
		c.logger.Error().Err(err).Str("userID", sess.UserID).Msg("Failed to refresh session profile")
		middleware.HandleError(ctx, err)
		return
	}

	ctx.Redirect(http.StatusFound, middleware.HomePath(user.Role, user.IsProfileComplete))
}

// ShowProfile renders the profile page of the logged in user
func (c *ProfileController) ShowProfile(ctx *gin.Context) {
	sess, _ := middleware.GetSession(ctx)

	user, err := c.authService.GetUser(ctx.Request.Context(), sess.UserID)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	tmpl := "profile.html"
	if user.IsAdmin() {
		tmpl = "admin_profile.html"
	}
	ctx.HTML(http.StatusOK, tmpl, page(ctx, "Profile", gin.H{"account": user}))
}

// Contact renders the static contact page
func (c *ProfileController) Contact(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "contact.html", page(ctx, "Contact", nil))
}

func profileFormOf(p models.Profile) dto.ProfileRequest {
	return dto.ProfileRequest{
		Name:         p.Name,
		DOB:          p.DOB,
		FatherName:   p.FatherName,
		StudentClass: p.ClassLevel,
		Gender:       string(p.Gender),
		Medium:       string(p.Medium),
		SchoolName:   p.SchoolName,
	}
}
