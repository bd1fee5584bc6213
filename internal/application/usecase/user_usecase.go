package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo       repository.UserRepository
	tenantRepo repository.TenantRepository
	branchRepo repository.BranchRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, tenantRepo repository.TenantRepository, branchRepo repository.BranchRepository) *UserUseCase {
	return &UserUseCase{repo: repo, tenantRepo: tenantRepo, branchRepo: branchRepo}
}

// HashPassword bcrypt con costo por defecto (10).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Create crea un usuario. El OWNER solo crea usuarios de su tenant y nunca SUPERADMIN.
func (uc *UserUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol %q no soportado", domain.ErrInvalidInput, in.Role)
	}

	tenantID := in.TenantID
	if !actor.IsSuperAdmin() {
		if in.Role == entity.RoleSuperAdmin {
			return nil, fmt.Errorf("%w: no puede crear usuarios SUPERADMIN", domain.ErrForbidden)
		}
		own := actor.TenantID
		tenantID = &own
	}
	if in.Role == entity.RoleSuperAdmin {
		tenantID = nil
	} else {
		if tenantID == nil || *tenantID == "" {
			return nil, fmt.Errorf("%w: tenantId es obligatorio", domain.ErrInvalidInput)
		}
		tenant, err := uc.tenantRepo.GetByID(ctx, *tenantID)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, fmt.Errorf("%w: tenant", domain.ErrNotFound)
		}
	}
	if err := uc.checkBranch(ctx, in.Role, tenantID, in.BranchID); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         in.Role,
		TenantID:     tenantID,
		BranchID:     in.BranchID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Role == entity.RoleSuperAdmin {
		user.BranchID = nil
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// checkBranch la sucursal debe ser del tenant; el cajero necesita una.
func (uc *UserUseCase) checkBranch(ctx context.Context, role string, tenantID, branchID *string) error {
	if branchID == nil || *branchID == "" {
		if role == entity.RoleCashier {
			return fmt.Errorf("%w: branchId es obligatorio para CASHIER", domain.ErrInvalidInput)
		}
		return nil
	}
	if tenantID == nil {
		return fmt.Errorf("%w: un SUPERADMIN no tiene sucursal", domain.ErrInvalidInput)
	}
	branch, err := uc.branchRepo.GetByID(ctx, *tenantID, *branchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return fmt.Errorf("%w: sucursal", domain.ErrNotFound)
	}
	return nil
}

// get aplica el alcance: fuera de su tenant un usuario "no existe" para quien no es SUPERADMIN.
func (uc *UserUseCase) get(ctx context.Context, actor entity.Actor, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || (!actor.IsSuperAdmin() && !ptrEquals(user.TenantID, actor.TenantID)) {
		return nil, fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	return user, nil
}

func (uc *UserUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List SUPERADMIN ve todos; el resto solo su tenant.
func (uc *UserUseCase) List(ctx context.Context, actor entity.Actor) ([]dto.UserResponse, error) {
	tenantID := actor.TenantID
	if actor.IsSuperAdmin() {
		tenantID = ""
	}
	list, err := uc.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

func (uc *UserUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && user.Role == entity.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: no puede modificar un SUPERADMIN", domain.ErrForbidden)
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username no puede estar vacío", domain.ErrInvalidInput)
		}
		user.Username = username
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q no soportado", domain.ErrInvalidInput, *in.Role)
		}
		if *in.Role == entity.RoleSuperAdmin && (!actor.IsSuperAdmin() || user.TenantID != nil) {
			return nil, fmt.Errorf("%w: no puede asignar el rol SUPERADMIN", domain.ErrForbidden)
		}
		user.Role = *in.Role
	}
	if in.BranchID != nil {
		if *in.BranchID == "" {
			user.BranchID = nil
		} else {
			user.BranchID = in.BranchID
		}
	}
	if err := uc.checkBranch(ctx, user.Role, user.TenantID, user.BranchID); err != nil {
		return nil, err
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if id == actor.UserID {
		return fmt.Errorf("%w: no puede eliminar su propio usuario", domain.ErrConflict)
	}
	user, err := uc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.IsSuperAdmin() && user.Role == entity.RoleSuperAdmin {
		return fmt.Errorf("%w: no puede eliminar un SUPERADMIN", domain.ErrForbidden)
	}
	return uc.repo.Delete(ctx, id)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		TenantID:  u.TenantID,
		BranchID:  u.BranchID,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

func ptrEquals(p *string, v string) bool {
	return p != nil && *p == v
}
