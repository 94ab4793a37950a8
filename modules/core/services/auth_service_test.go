package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/modules/core/services"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/serrors"
)

type fakeAdminRepository struct {
	admins []*admin.Admin
}

func (f *fakeAdminRepository) GetByID(_ context.Context, id uint) (*admin.Admin, error) {
	for _, a := range f.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, admin.ErrNotFound
}

func (f *fakeAdminRepository) GetByEmail(_ context.Context, email string) (*admin.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, admin.ErrNotFound
}

func (f *fakeAdminRepository) GetPaginated(_ context.Context, _ *admin.FindParams) ([]*admin.Admin, error) {
	return f.admins, nil
}

func (f *fakeAdminRepository) Count(_ context.Context, _ *admin.FindParams) (int64, error) {
	return int64(len(f.admins)), nil
}

func (f *fakeAdminRepository) Create(_ context.Context, data *admin.Admin) (*admin.Admin, error) {
	created := *data
	created.ID = uint(len(f.admins) + 1)
	f.admins = append(f.admins, &created)
	return &created, nil
}

func (f *fakeAdminRepository) Update(_ context.Context, data *admin.Admin) (*admin.Admin, error) {
	for i, a := range f.admins {
		if a.ID == data.ID {
			f.admins[i] = data
			return data, nil
		}
	}
	return nil, admin.ErrNotFound
}

func (f *fakeAdminRepository) Delete(_ context.Context, id uint) error {
	for i, a := range f.admins {
		if a.ID == id {
			f.admins = append(f.admins[:i], f.admins[i+1:]...)
			return nil
		}
	}
	return admin.ErrNotFound
}

func tokenOpts(duration time.Duration) configuration.AdminTokenOptions {
	return configuration.AdminTokenOptions{
		Secret:   "test-secret",
		Duration: duration,
		Issuer:   "mozartiade-test",
	}
}

func seedAdmin(t *testing.T, repo *fakeAdminRepository, email, password string, role admin.Role) *admin.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), &admin.Admin{
		Email:        email,
		Name:         "Test Admin",
		PasswordHash: string(hash),
		Role:         role,
	})
	require.NoError(t, err)
	return created
}

func TestAuthServiceLoginAndVerify(t *testing.T) {
	repo := &fakeAdminRepository{}
	seeded := seedAdmin(t, repo, "editor@example.com", "correct horse", admin.RoleEditor)
	svc := services.NewAuthService(repo, tokenOpts(time.Hour))

	a, token, err := svc.Login(context.Background(), "editor@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, a.ID)
	require.NotEmpty(t, token)

	verified, err := svc.VerifyAdminCredential(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, seeded.ID, verified.ID)
	require.Equal(t, admin.RoleEditor, verified.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &fakeAdminRepository{}
	seedAdmin(t, repo, "editor@example.com", "correct horse", admin.RoleEditor)
	svc := services.NewAuthService(repo, tokenOpts(time.Hour))

	_, _, err := svc.Login(context.Background(), "editor@example.com", "wrong")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, serrors.AsServiceError(err).Status)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := services.NewAuthService(&fakeAdminRepository{}, tokenOpts(time.Hour))

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "anything")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, serrors.AsServiceError(err).Status)
}

func TestAuthServiceVerifyExpiredToken(t *testing.T) {
	repo := &fakeAdminRepository{}
	seedAdmin(t, repo, "editor@example.com", "correct horse", admin.RoleEditor)
	svc := services.NewAuthService(repo, tokenOpts(-time.Minute))

	_, token, err := svc.Login(context.Background(), "editor@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.VerifyAdminCredential(context.Background(), token)
	require.Error(t, err)
}

func TestAuthServiceVerifyTamperedToken(t *testing.T) {
	repo := &fakeAdminRepository{}
	seedAdmin(t, repo, "editor@example.com", "correct horse", admin.RoleEditor)
	svc := services.NewAuthService(repo, tokenOpts(time.Hour))

	_, token, err := svc.Login(context.Background(), "editor@example.com", "correct horse")
	require.NoError(t, err)

	other := services.NewAuthService(repo, configuration.AdminTokenOptions{
		Secret:   "different-secret",
		Duration: time.Hour,
		Issuer:   "mozartiade-test",
	})
	_, err = other.VerifyAdminCredential(context.Background(), token)
	require.Error(t, err)
}

func TestAuthServiceVerifyDeletedAdmin(t *testing.T) {
	repo := &fakeAdminRepository{}
	seeded := seedAdmin(t, repo, "editor@example.com", "correct horse", admin.RoleEditor)
	svc := services.NewAuthService(repo, tokenOpts(time.Hour))

	_, token, err := svc.Login(context.Background(), "editor@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), seeded.ID))
	_, err = svc.VerifyAdminCredential(context.Background(), token)
	require.Error(t, err)
}
