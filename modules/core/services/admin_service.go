package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/serrors"
)

// AdminService manages back-office accounts. Routes are already gated by the
// bearer middleware; the service re-checks the ranked rules that depend on
// the target, not just the endpoint.
type AdminService struct {
	repo      admin.Repository
	publisher eventbus.EventBus
}

func NewAdminService(repo admin.Repository, publisher eventbus.EventBus) *AdminService {
	return &AdminService{repo: repo, publisher: publisher}
}

func (s *AdminService) GetByID(ctx context.Context, id uint) (*admin.Admin, error) {
	a, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, admin.ErrNotFound) {
		return nil, serrors.NotFound("admin not found")
	}
	return a, err
}

func (s *AdminService) GetPaginatedWithTotal(ctx context.Context, params *admin.FindParams) ([]*admin.Admin, int64, error) {
	var admins []*admin.Admin
	var total int64
	err := composables.InReadTx(ctx, func(txCtx context.Context) error {
		var err error
		if admins, err = s.repo.GetPaginated(txCtx, params); err != nil {
			return err
		}
		total, err = s.repo.Count(txCtx, params)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

func validateAdminAccount(email, name string, role admin.Role) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return serrors.Validation("a valid email is required")
	}
	if strings.TrimSpace(name) == "" {
		return serrors.Validation("name is required")
	}
	if !role.Valid() {
		return serrors.Validation("unknown role")
	}
	return nil
}

func (s *AdminService) Create(ctx context.Context, email, name, password string, role admin.Role) (*admin.Admin, error) {
	if err := validateAdminAccount(email, name, role); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, serrors.Validation("password must be at least 8 characters")
	}

	caller, err := composables.UseAdmin(ctx)
	if err != nil {
		return nil, serrors.Authentication("authentication required")
	}
	if caller.Role != admin.RoleSuperAdmin {
		return nil, serrors.Authorization("only a super admin may create admin accounts")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, serrors.Conflict("an admin with this email already exists")
	} else if !errors.Is(err, admin.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	var created *admin.Admin
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		created, err = s.repo.Create(txCtx, &admin.Admin{
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			Role:         role,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(admin.CreatedEvent{Result: created})
	return created, nil
}

func (s *AdminService) Update(ctx context.Context, id uint, name string, role admin.Role) (*admin.Admin, error) {
	target, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateAdminAccount(target.Email, name, role); err != nil {
		return nil, err
	}

	caller, err := composables.UseAdmin(ctx)
	if err != nil {
		return nil, serrors.Authentication("authentication required")
	}
	if (role == admin.RoleSuperAdmin || target.Role == admin.RoleSuperAdmin) && caller.Role != admin.RoleSuperAdmin {
		return nil, serrors.Authorization("only a super admin may change super admin accounts")
	}

	target.Name = name
	target.Role = role

	var updated *admin.Admin
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		updated, err = s.repo.Update(txCtx, target)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(admin.UpdatedEvent{Result: updated})
	return updated, nil
}

// ChangePassword lets an admin rotate their own password; a super admin may
// also reset another admin's password.
func (s *AdminService) ChangePassword(ctx context.Context, id uint, password string) error {
	if len(password) < 8 {
		return serrors.Validation("password must be at least 8 characters")
	}

	caller, err := composables.UseAdmin(ctx)
	if err != nil {
		return serrors.Authentication("authentication required")
	}
	if caller.ID != id && caller.Role != admin.RoleSuperAdmin {
		return serrors.Authorization("only a super admin may reset another admin's password")
	}

	target, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	target.PasswordHash = string(hash)

	return composables.InTx(ctx, func(txCtx context.Context) error {
		_, err := s.repo.Update(txCtx, target)
		return err
	})
}

func (s *AdminService) Delete(ctx context.Context, id uint) error {
	caller, err := composables.UseAdmin(ctx)
	if err != nil {
		return serrors.Authentication("authentication required")
	}
	if caller.Role != admin.RoleSuperAdmin {
		return serrors.Authorization("only a super admin may delete admin accounts")
	}
	if caller.ID == id {
		return serrors.Validation("cannot delete your own account")
	}

	target, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	}); err != nil {
		return err
	}

	s.publisher.Publish(admin.DeletedEvent{ID: target.ID})
	return nil
}
