package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/auth"
)

// User facing messages of the identity flows
const (
	MsgMobileTaken        = "Mobile number already registered. Please Login."
	MsgInvalidLogin       = "Invalid Mobile or Password"
	MsgDetailsMismatch    = "Details do not match (Wrong Mobile or DOB)."
	MsgPasswordsMismatch  = "New passwords do not match."
	MsgIncorrectPassword  = "Incorrect current password."
	MsgResetLinkInvalid   = "Reset link is invalid or has expired. Please verify again."
	MsgResetDisabled      = "Password reset is disabled. Please contact the administrator."
	MsgPasswordChanged    = "Password changed successfully!"
	MsgAccountCreated     = "Account Created! Please Login."
	MsgPasswordResetDone  = "Password Reset! Please Login."
	msgPasswordTooShortFn = "Password must be at least %d characters long."
)

// SessionRevoker revokes every session of a user
type SessionRevoker interface {
	DestroyUser(ctx context.Context, userID string) error
}

// AuthConfig holds the identity rules
type AuthConfig struct {
	MinPasswordLength int
	AllowDOBReset     bool
}

// AuthService handles registration, login, profile completion and passwords
type AuthService struct {
	userRepo    repositories.UserRepository
	hasher      *auth.PasswordHasher
	resetTokens *auth.ResetTokenService
	sessions    SessionRevoker
	config      AuthConfig
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher *auth.PasswordHasher,
	resetTokens *auth.ResetTokenService,
	sessions SessionRevoker,
	config AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	if config.MinPasswordLength <= 0 {
		config.MinPasswordLength = 6
	}
	return &AuthService{
		userRepo:    userRepo,
		hasher:      hasher,
		resetTokens: resetTokens,
		sessions:    sessions,
		config:      config,
		logger:      logger,
	}
}

// AllowDOBReset reports whether self-service password reset is enabled
func (s *AuthService) AllowDOBReset() bool {
	return s.config.AllowDOBReset
}

// validatePassword checks length and confirmation of a new password
func (s *AuthService) validatePassword(password, confirm string, checkConfirm bool) error {
	if checkConfirm && password != confirm {
		return apperrors.NewCustomError(apperrors.ErrPasswordMismatch, MsgPasswordsMismatch)
	}
	if len(password) < s.config.MinPasswordLength {
		return apperrors.NewCustomError(apperrors.ErrPasswordTooShort,
			fmt.Sprintf(msgPasswordTooShortFn, s.config.MinPasswordLength))
	}
	return nil
}

// Register creates a student account with a complete profile. A taken mobile
// number is reported without touching the store.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	mobile := strings.TrimSpace(req.Mobile)
	if err := s.validatePassword(req.Password, "", false); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.MobileExists(ctx, mobile)
	if err != nil {
		s.logger.Error().Err(err).Str("mobile", mobile).Msg("Error checking mobile availability")
		return nil, fmt.Errorf("error checking mobile: %w", err)
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrMobileAlreadyRegistered, MsgMobileTaken)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Mobile:            mobile,
		PasswordHash:      hash,
		Role:              models.RoleStudent,
		IsProfileComplete: true,
		Profile:           req.Profile(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrMobileAlreadyRegistered) {
			return nil, apperrors.NewCustomError(apperrors.ErrMobileAlreadyRegistered, MsgMobileTaken)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Msg("Student registered")
	return user, nil
}

// Login checks credentials and returns the user
func (s *AuthService) Login(ctx context.Context, mobile, password string) (*models.User, error) {
	user, err := s.userRepo.GetByMobile(ctx, strings.TrimSpace(mobile))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidLogin)
		}
		s.logger.Error().Err(err).Msg("Error loading user for login")
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Error verifying password")
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidLogin)
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// CompleteProfile stores the academic profile of a user and marks it complete
func (s *AuthService) CompleteProfile(ctx context.Context, userID string, req *dto.ProfileRequest) (*models.User, error) {
	current, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, req.Merge(current.Profile))
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	s.logger.Info().Str("userID", userID).Msg("Profile completed")
	return user, nil
}

// VerifyIdentity matches a mobile number and date of birth and returns a
// short-lived token allowing one password reset. The token is tied to the
// current password, so it cannot be used again once the password changes.
func (s *AuthService) VerifyIdentity(ctx context.Context, mobile, dob string) (string, error) {
	if !s.config.AllowDOBReset {
		return "", apperrors.NewCustomError(apperrors.ErrFeatureDisabled, MsgResetDisabled)
	}

	user, err := s.userRepo.FindByMobileAndDOB(ctx, strings.TrimSpace(mobile), strings.TrimSpace(dob))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgDetailsMismatch)
		}
		return "", fmt.Errorf("error verifying identity: %w", err)
	}

	s.logger.Warn().Str("userID", user.ID).Msg("Password reset identity verified by date of birth")
	return s.resetTokens.Issue(user.ID, user.PasswordHash)
}

// ResetPassword sets a new password for the holder of a valid reset token and
// revokes all of the user's sessions
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	if !s.config.AllowDOBReset {
		return apperrors.NewCustomError(apperrors.ErrFeatureDisabled, MsgResetDisabled)
	}

	claims, err := s.resetTokens.Validate(token)
	if err != nil {
		return apperrors.NewCustomError(err, MsgResetLinkInvalid)
	}
	if err := s.validatePassword(newPassword, confirm, confirm != ""); err != nil {
		return err
	}
	userID := claims.Subject

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewCustomError(apperrors.ErrInvalidPasswordResetToken, MsgResetLinkInvalid)
		}
		return err
	}
	if !s.resetTokens.Matches(claims, user.PasswordHash) {
		s.logger.Warn().Str("userID", userID).Msg("Rejected reset token issued for a previous password")
		return apperrors.NewCustomError(apperrors.ErrInvalidPasswordResetToken, MsgResetLinkInvalid)
	}

	if err := s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}

	s.logger.Info().Str("userID", userID).Msg("Password reset")
	return nil
}

// ChangePassword replaces the password of a logged in user after checking
// the current one. All sessions of the user are revoked.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if err := s.validatePassword(req.NewPassword, req.ConfirmPassword, true); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, req.OldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewCustomError(apperrors.ErrIncorrectPassword, MsgIncorrectPassword)
	}

	if err := s.setPassword(ctx, userID, req.NewPassword); err != nil {
		return err
	}

	s.logger.Info().Str("userID", userID).Msg("Password changed")
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if s.sessions != nil {
		if err := s.sessions.DestroyUser(ctx, userID); err != nil {
			s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to revoke sessions after password change")
		}
	}
	return nil
}
