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
)

// MechanicUseCase CRUD de mecánicos.
type MechanicUseCase struct {
	repo       repository.MechanicRepository
	branchRepo repository.BranchRepository
}

// NewMechanicUseCase construye el caso de uso.
func NewMechanicUseCase(repo repository.MechanicRepository, branchRepo repository.BranchRepository) *MechanicUseCase {
	return &MechanicUseCase{repo: repo, branchRepo: branchRepo}
}

func (uc *MechanicUseCase) checkBranch(ctx context.Context, tenantID string, branchID *string) error {
	if branchID == nil || *branchID == "" {
		return nil
	}
	branch, err := uc.branchRepo.GetByID(ctx, tenantID, *branchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return fmt.Errorf("%w: sucursal", domain.ErrNotFound)
	}
	return nil
}

func (uc *MechanicUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateMechanicRequest) (*dto.MechanicResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	branchID := in.BranchID
	if branchID != nil && *branchID == "" {
		branchID = nil
	}
	if err := uc.checkBranch(ctx, actor.TenantID, branchID); err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.Mechanic{
		ID:        uuid.New().String(),
		TenantID:  actor.TenantID,
		BranchID:  branchID,
		Name:      name,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMechanicResponse(m), nil
}

func (uc *MechanicUseCase) get(ctx context.Context, tenantID, id string) (*entity.Mechanic, error) {
	m, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: mecánico", domain.ErrNotFound)
	}
	return m, nil
}

func (uc *MechanicUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.MechanicResponse, error) {
	m, err := uc.get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	return toMechanicResponse(m), nil
}

// List filtra por sucursal (forzada para el cajero) y, por defecto, solo activos.
func (uc *MechanicUseCase) List(ctx context.Context, actor entity.Actor, branchID string, activeOnly bool) ([]dto.MechanicResponse, error) {
	list, err := uc.repo.List(ctx, repository.MechanicFilter{
		TenantID:   actor.TenantID,
		BranchID:   actor.ScopeBranch(branchID),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MechanicResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMechanicResponse(m))
	}
	return out, nil
}

func (uc *MechanicUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateMechanicRequest) (*dto.MechanicResponse, error) {
	m, err := uc.get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
		}
		m.Name = name
	}
	if in.Phone != nil {
		m.Phone = in.Phone
	}
	if in.BranchID != nil {
		if *in.BranchID == "" {
			m.BranchID = nil
		} else {
			if err := uc.checkBranch(ctx, actor.TenantID, in.BranchID); err != nil {
				return nil, err
			}
			m.BranchID = in.BranchID
		}
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMechanicResponse(m), nil
}

func (uc *MechanicUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.repo.Delete(ctx, actor.TenantID, id)
}

func toMechanicResponse(m *entity.Mechanic) *dto.MechanicResponse {
	return &dto.MechanicResponse{
		ID:        m.ID,
		TenantID:  m.TenantID,
		BranchID:  m.BranchID,
		Name:      m.Name,
		Phone:     m.Phone,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
