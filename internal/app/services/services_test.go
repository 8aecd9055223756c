package services

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories/memory"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/auth"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/session"
)

func ptr(s string) *string { return &s }

// fakeStorage records saved and deleted image references
type fakeStorage struct {
	saved   []string
	deleted []string
	err     error
}

func (f *fakeStorage) Save(_ context.Context, fh *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	ref := "/uploads/" + fh.Filename
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeStorage) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

type fixture struct {
	repos    *repositories.Repositories
	sessions *session.Manager
	storage  *fakeStorage
	auth     *AuthService
	nav      *NavigatorService
	content  *ContentService
	export   *ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := memory.NewRepositories()
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	storage := &fakeStorage{}
	taxonomy := models.NewTaxonomy([]models.Subject{
		{Name: "Mathematics", ExerciseOrganized: true},
		{Name: "Science"},
	})
	resetTokens := auth.NewResetTokenService(auth.ResetTokenConfig{
		SecretKey:   "test-secret",
		TTL:         15 * time.Minute,
		TokenIssuer: "test",
	})
	log := zerolog.Nop()

	return &fixture{
		repos:    repos,
		sessions: sessions,
		storage:  storage,
		auth: NewAuthService(repos.Users, auth.NewPasswordHasher(4), resetTokens, sessions,
			AuthConfig{MinPasswordLength: 6, AllowDOBReset: true}, log),
		nav:     NewNavigatorService(repos.Contents, taxonomy, log),
		content: NewContentService(repos.Contents, storage, log),
		export:  NewExportService(repos.Contents, log),
	}
}

func (f *fixture) addContent(t *testing.T, c models.Content) *models.Content {
	t.Helper()
	require.NoError(t, f.repos.Contents.Create(context.Background(), &c))
	return &c
}
