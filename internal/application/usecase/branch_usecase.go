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

// BranchUseCase CRUD de sucursales del tenant del actor.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

func (uc *BranchUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		TenantID:  actor.TenantID,
		Name:      name,
		Address:   in.Address,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

func (uc *BranchUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.BranchResponse, error) {
	branch, err := uc.get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

func (uc *BranchUseCase) get(ctx context.Context, tenantID, id string) (*entity.Branch, error) {
	branch, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal", domain.ErrNotFound)
	}
	return branch, nil
}

// List sucursales del tenant; el cajero solo ve la suya.
func (uc *BranchUseCase) List(ctx context.Context, actor entity.Actor) ([]dto.BranchResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		if actor.IsCashier() && b.ID != actor.BranchID {
			continue
		}
		out = append(out, *toBranchResponse(b))
	}
	return out, nil
}

func (uc *BranchUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	branch, err := uc.get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
		}
		branch.Name = name
	}
	if in.Address != nil {
		branch.Address = in.Address
	}
	if in.Phone != nil {
		branch.Phone = in.Phone
	}
	if in.IsActive != nil {
		branch.IsActive = *in.IsActive
	}
	branch.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

func (uc *BranchUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.repo.Delete(ctx, actor.TenantID, id)
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
