package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

func registration(mobile string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Mobile:       mobile,
		Password:     "secret1",
		Name:         "Asha",
		DOB:          "2010-04-02",
		FatherName:   "Ravi",
		StudentClass: 10,
		Gender:       "Female",
		Medium:       "English",
		SchoolName:   "Govt School",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, registration("9876543210"))
	require.NoError(t, err)
	assert.True(t, user.IsProfileComplete)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	got, err := f.auth.Login(ctx, "9876543210", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, 10, got.Profile.ClassLevel)

	_, err = f.auth.Login(ctx, "9876543210", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, MsgInvalidLogin, apperrors.UserMessage(err, ""))

	_, err = f.auth.Login(ctx, "0000000000", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegisterDuplicateMobileLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.auth.Register(ctx, registration("9876543210"))
	require.NoError(t, err)

	again := registration("9876543210")
	again.Password = "another1"
	again.Name = "Someone Else"
	_, err = f.auth.Register(ctx, again)
	assert.ErrorIs(t, err, apperrors.ErrMobileAlreadyRegistered)
	assert.Equal(t, MsgMobileTaken, apperrors.UserMessage(err, ""))

	stored, err := f.repos.Users.GetByMobile(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
	assert.Equal(t, "Asha", stored.Profile.Name)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := newFixture(t)
	req := registration("9876543210")
	req.Password = "abc"

	_, err := f.auth.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)

	exists, err := f.repos.Users.MobileExists(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCompleteProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := &models.User{Mobile: "1234567890", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, f.repos.Users.Create(ctx, user))
	assert.False(t, user.IsProfileComplete)

	updated, err := f.auth.CompleteProfile(ctx, user.ID, &dto.ProfileRequest{
		Name:         "Demo Student",
		StudentClass: 9,
		Medium:       "Hindi",
	})
	require.NoError(t, err)
	assert.True(t, updated.IsProfileComplete)
	assert.Equal(t, 9, updated.Profile.ClassLevel)
	assert.Equal(t, models.MediumHindi, updated.Profile.Medium)

	_, err = f.auth.CompleteProfile(ctx, "missing", &dto.ProfileRequest{Name: "x", StudentClass: 9, Medium: "Hindi"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, registration("9876543210"))
	require.NoError(t, err)
	token, _, err := f.sessions.Create(ctx, user)
	require.NoError(t, err)

	_, err = f.auth.VerifyIdentity(ctx, "9876543210", "2001-01-01")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, MsgDetailsMismatch, apperrors.UserMessage(err, ""))

	resetToken, err := f.auth.VerifyIdentity(ctx, "9876543210", "2010-04-02")
	require.NoError(t, err)

	err = f.auth.ResetPassword(ctx, resetToken, "new-secret", "other")
	assert.ErrorIs(t, err, apperrors.ErrPasswordMismatch)

	err = f.auth.ResetPassword(ctx, "forged", "new-secret", "new-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPasswordResetToken)
	assert.Equal(t, MsgResetLinkInvalid, apperrors.UserMessage(err, ""))

	require.NoError(t, f.auth.ResetPassword(ctx, resetToken, "new-secret", "new-secret"))

	_, err = f.auth.Login(ctx, "9876543210", "new-secret")
	assert.NoError(t, err)
	_, err = f.sessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestPasswordResetTokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, registration("9876543210"))
	require.NoError(t, err)

	resetToken, err := f.auth.VerifyIdentity(ctx, "9876543210", "2010-04-02")
	require.NoError(t, err)
	require.NoError(t, f.auth.ResetPassword(ctx, resetToken, "first-secret", "first-secret"))

	err = f.auth.ResetPassword(ctx, resetToken, "second-secret", "second-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPasswordResetToken)
	assert.Equal(t, MsgResetLinkInvalid, apperrors.UserMessage(err, ""))

	_, err = f.auth.Login(ctx, "9876543210", "first-secret")
	assert.NoError(t, err)
	_, err = f.auth.Login(ctx, "9876543210", "second-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestPasswordResetTokenVoidedByPasswordChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, registration("9876543210"))
	require.NoError(t, err)

	resetToken, err := f.auth.VerifyIdentity(ctx, "9876543210", "2010-04-02")
	require.NoError(t, err)

	require.NoError(t, f.auth.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		OldPassword:     "secret1",
		NewPassword:     "changed1",
		ConfirmPassword: "changed1",
	}))

	err = f.auth.ResetPassword(ctx, resetToken, "reset-secret", "reset-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPasswordResetToken)
}

func TestPasswordResetDisabled(t *testing.T) {
	f := newFixture(t)
	f.auth.config.AllowDOBReset = false

	_, err := f.auth.VerifyIdentity(context.Background(), "9876543210", "2010-04-02")
	assert.ErrorIs(t, err, apperrors.ErrFeatureDisabled)
	assert.ErrorIs(t, f.auth.ResetPassword(context.Background(), "t", "secret1", "secret1"), apperrors.ErrFeatureDisabled)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, registration("9876543210"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     dto.ChangePasswordRequest
		wantErr error
		wantMsg string
	}{
		{"confirmation differs", dto.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "newpass1", ConfirmPassword: "newpass2"},
			apperrors.ErrPasswordMismatch, "New passwords do not match."},
		{"too short", dto.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "abc", ConfirmPassword: "abc"},
			apperrors.ErrPasswordTooShort, "Password must be at least 6 characters long."},
		{"wrong current", dto.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpass1", ConfirmPassword: "newpass1"},
			apperrors.ErrIncorrectPassword, "Incorrect current password."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.auth.ChangePassword(ctx, user.ID, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, apperrors.UserMessage(err, ""))
		})
	}

	require.NoError(t, f.auth.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "secret1", NewPassword: "newpass1", ConfirmPassword: "newpass1",
	}))
	_, err = f.auth.Login(ctx, "9876543210", "newpass1")
	assert.NoError(t, err)
	_, err = f.auth.Login(ctx, "9876543210", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
