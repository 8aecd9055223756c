// Package seed creates the accounts a fresh installation needs.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/auth"
)

// Account is a login created by CreateDefaultData
type Account struct {
	Mobile   string
	Password string
}

// Options selects the default accounts. An empty student mobile skips the
// demo student.
type Options struct {
	Admin   Account
	Student Account
}

// CreateDefaultData creates the admin account and the optional demo student
// if they don't exist. Every account is attempted; failures are joined.
func CreateDefaultData(ctx context.Context, users repositories.UserRepository, hasher *auth.PasswordHasher, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default accounts...")
	var finalErr error

	admin := &models.User{
		Mobile:            opts.Admin.Mobile,
		Role:              models.RoleAdmin,
		IsProfileComplete: true,
		Profile:           models.Profile{Name: "Admin"},
	}
	if err := createAccount(ctx, users, hasher, admin, opts.Admin.Password, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		finalErr = errors.Join(finalErr, err)
	}

	if opts.Student.Mobile != "" {
		// The demo student logs in with an incomplete profile
		student := &models.User{
			Mobile: opts.Student.Mobile,
			Role:   models.RoleStudent,
		}
		if err := createAccount(ctx, users, hasher, student, opts.Student.Password, lgr); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo student account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func createAccount(ctx context.Context, users repositories.UserRepository, hasher *auth.PasswordHasher, user *models.User, password string, lgr zerolog.Logger) error {
	if user.Mobile == "" || password == "" {
		return fmt.Errorf("%s account needs a mobile number and a password", user.Role)
	}

	exists, err := users.MobileExists(ctx, user.Mobile)
	if err != nil {
		return fmt.Errorf("failed to check %s account: %w", user.Role, err)
	}
	if exists {
		lgr.Debug().Str("mobile", user.Mobile).Msg("Default account already exists")
		return nil
	}

	user.PasswordHash, err = hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash %s password: %w", user.Role, err)
	}

	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrMobileAlreadyRegistered) {
			return nil
		}
		return fmt.Errorf("failed to create %s account: %w", user.Role, err)
	}

	lgr.Info().Str("mobile", user.Mobile).Str("role", string(user.Role)).Msg("Default account created")
	return nil
}
