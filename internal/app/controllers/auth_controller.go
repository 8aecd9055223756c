package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/app/services"
	"github.com/Dinesh259/Free-Solutions/internal/middleware"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

// Login page messages
const (
	MsgServerError = "Server Error"
	msgServerRetry = "Server error. Please try again."
)

// AuthController handles login, registration and password operations
type AuthController struct {
	authService    *services.AuthService
	authMiddleware *middleware.AuthMiddleware
	binder         *middleware.FormBinder
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, authMiddleware *middleware.AuthMiddleware, binder *middleware.FormBinder, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:    authService,
		authMiddleware: authMiddleware,
		binder:         binder,
		logger:         logger,
	}
}

// ShowLogin renders the login page with the message carried in the URL
func (c *AuthController) ShowLogin(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", page(ctx, "Login", gin.H{
		"error":   ctx.Query("error"),
		"message": ctx.Query("message"),
	}))
}

// Login checks credentials, starts a session and redirects to the role's home
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := c.binder.Bind(ctx, &req); err != nil {
		redirectWith(ctx, middleware.LoginPath, url.Values{"error": {services.MsgInvalidLogin}})
		return
	}

	user, err := c.authService.Login(ctx.Request.Context(), req.Mobile, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.logger.Info().Str("mobile", req.Mobile).Msg("Failed login attempt")
			redirectWith(ctx, middleware.LoginPath, url.Values{"error": {services.MsgInvalidLogin}})
			return
		}
		c.logger.Error().Err(err).Msg("Login failed")
		redirectWith(ctx, middleware.LoginPath, url.Values{"error": {MsgServerError}})
		return
	}

	token, _, err := c.authMiddleware.Sessions().Create(ctx.Request.Context(), user)
	if err != nil {
		c.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to create session")
		redirectWith(ctx, middleware.LoginPath, url.Values{"error": {MsgServerError}})
		return
	}
	c.authMiddleware.SetSessionCookie(ctx, token)

	ctx.Redirect(http.StatusFound, middleware.HomePath(user.Role, user.IsProfileComplete))
}

// Logout destroys the session and clears the cookie
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authMiddleware.Sessions().Destroy(ctx.Request.Context(), c.authMiddleware.SessionToken(ctx)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to destroy session")
	}
	c.authMiddleware.ClearSessionCookie(ctx)
	ctx.Redirect(http.StatusFound, middleware.LoginPath)
}

// ShowRegister renders the registration form
func (c *AuthController) ShowRegister(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "register.html", page(ctx, "Register", gin.H{
		"form":        dto.RegisterRequest{},
		"classLevels": models.ClassLevels(),
	}))
}

// Register creates a student account
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := c.binder.Bind(ctx, &req); err != nil {
		c.renderRegister(ctx, http.StatusBadRequest, &req, err)
		return
	}

	if _, err := c.authService.Register(ctx.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMobileAlreadyRegistered):
			c.renderRegister(ctx, http.StatusConflict, &req, err)
		case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrPasswordTooShort):
			c.renderRegister(ctx, http.StatusBadRequest, &req, err)
		default:
			middleware.HandleError(ctx, err)
		}
		return
	}

	redirectWith(ctx, middleware.LoginPath, url.Values{"message": {services.MsgAccountCreated}})
}

func (c *AuthController) renderRegister(ctx *gin.Context, status int, req *dto.RegisterRequest, err error) {
	req.Password = ""
	ctx.HTML(status, "register.html", page(ctx, "Register", gin.H{
		"form":        req,
		"classLevels": models.ClassLevels(),
		"error":       apperrors.UserMessage(err, "Please check the form and try again."),
	}))
}

// ShowForgotPassword renders the identity check form of the password reset
func (c *AuthController) ShowForgotPassword(ctx *gin.Context) {
	c.renderForgot(ctx, http.StatusOK, "")
}

func (c *AuthController) renderForgot(ctx *gin.Context, status int, errMsg string) {
	ctx.HTML(status, "forgot_password.html", page(ctx, "Forgot Password", gin.H{
		"enabled": c.authService.AllowDOBReset(),
		"error":   errMsg,
	}))
}

// VerifyUser checks mobile and date of birth and shows the new password form
func (c *AuthController) VerifyUser(ctx *gin.Context) {
	var req dto.VerifyUserRequest
	if err := c.binder.Bind(ctx, &req); err != nil {
		c.renderForgot(ctx, http.StatusBadRequest, apperrors.UserMessage(err, services.MsgDetailsMismatch))
		return
	}

	token, err := c.authService.VerifyIdentity(ctx.Request.Context(), req.Mobile, req.DOB)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrInvalidCredentials, apperrors.ErrFeatureDisabled):
			c.renderForgot(ctx, http.StatusOK, apperrors.UserMessage(err, services.MsgDetailsMismatch))
		default:
			c.logger.Error().Err(err).Msg("Identity verification failed")
			c.renderForgot(ctx, http.StatusInternalServerError, MsgServerError)
		}
		return
	}

	ctx.HTML(http.StatusOK, "reset_password.html", page(ctx, "Reset Password", gin.H{"token": token}))
}

// ResetPassword sets the new password of a verified user
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.binder.Bind(ctx, &req); err != nil {
		c.renderForgot(ctx, http.StatusBadRequest, services.MsgResetLinkInvalid)
		return
	}

	err := c.authService.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrPasswordMismatch, apperrors.ErrPasswordTooShort):
			ctx.HTML(http.StatusBadRequest, "reset_password.html", page(ctx, "Reset Password", gin.H{
				"token": req.Token,
				"error": apperrors.UserMessage(err, ""),
			}))
		case apperrors.Is(err, apperrors.ErrInvalidPasswordResetToken, apperrors.ErrFeatureDisabled):
			c.renderForgot(ctx, http.StatusBadRequest, apperrors.UserMessage(err, services.MsgResetLinkInvalid))
		default:
			middleware.HandleError(ctx, err)
		}
		return
	}

	redirectWith(ctx, middleware.LoginPath, url.Values{"message": {services.MsgPasswordResetDone}})
}

// ShowChangePassword renders the change password form
func (c *AuthController) ShowChangePassword(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "change_password.html", page(ctx, "Change Password", nil))
}

// ChangePassword replaces the password of the logged in user. The current
// browser gets a fresh session since all old ones are revoked.
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.binder.Bind(ctx, &req); err != nil {
		c.renderChangePassword(ctx, http.StatusBadRequest, apperrors.UserMessage(err, msgServerRetry), "")
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), sess.UserID, &req); err != nil {
		if apperrors.Is(err, apperrors.ErrPasswordMismatch, apperrors.ErrPasswordTooShort, apperrors.ErrIncorrectPassword) {
			c.renderChangePassword(ctx, http.StatusOK, apperrors.UserMessage(err, ""), "")
			return
		}
		c.logger.Error().Err(err).Str("userID", sess.UserID).Msg("Password change failed")
		c.renderChangePassword(ctx, http.StatusInternalServerError, msgServerRetry, "")
		return
	}

	user, err := c.authService.GetUser(ctx.Request.Context(), sess.UserID)
	if err == nil {
		var token string
		token, _, err = c.authMiddleware.Sessions().Create(ctx.Request.Context(), user)
		if err == nil {
			c.authMiddleware.SetSessionCookie(ctx, token)
		}
	}
	if err != nil {
		c.logger.Error().Err(err).Str("userID", sess.UserID).Msg("Failed to renew session after password change")
	}

	c.renderChangePassword(ctx, http.StatusOK, "", services.MsgPasswordChanged)
}

func (c *AuthController) renderChangePassword(ctx *gin.Context, status int, errMsg, success string) {
	ctx.HTML(status, "change_password.html", page(ctx, "Change Password", gin.H{
		"error":   errMsg,
		"success": success,
	}))
}
