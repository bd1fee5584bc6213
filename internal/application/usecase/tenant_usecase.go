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
	"github.com/rs/zerolog"
)

// TenantUseCase administración de tenants (solo SUPERADMIN).
type TenantUseCase struct {
	repo  repository.TenantRepository
	cache repository.ProductCache
	log   zerolog.Logger
}

// NewTenantUseCase construye el caso de uso con el puerto de persistencia.
func NewTenantUseCase(repo repository.TenantRepository, cache repository.ProductCache, log zerolog.Logger) *TenantUseCase {
	return &TenantUseCase{repo: repo, cache: cache, log: log}
}

// Create crea un tenant activo. Plan por defecto LITE.
func (uc *TenantUseCase) Create(ctx context.Context, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	name := strings.TrimSpace(in.BusinessName)
	if name == "" {
		return nil, fmt.Errorf("%w: businessName es obligatorio", domain.ErrInvalidInput)
	}
	plan := in.SubscriptionPlan
	if plan == "" {
		plan = entity.PlanLite
	}
	if !entity.ValidPlan(plan) {
		return nil, fmt.Errorf("%w: plan %q no soportado", domain.ErrInvalidInput, plan)
	}
	now := time.Now()
	tenant := &entity.Tenant{
		ID:               uuid.New().String(),
		BusinessName:     name,
		SubscriptionPlan: plan,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// GetByID obtiene un tenant por ID.
func (uc *TenantUseCase) GetByID(ctx context.Context, id string) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant", domain.ErrNotFound)
	}
	return toTenantResponse(tenant), nil
}

// List todos los tenants.
func (uc *TenantUseCase) List(ctx context.Context) ([]dto.TenantResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTenantResponse(t))
	}
	return out, nil
}

// Update cambia nombre, plan o estado.
func (uc *TenantUseCase) Update(ctx context.Context, id string, in dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant", domain.ErrNotFound)
	}
	if in.BusinessName != nil {
		name := strings.TrimSpace(*in.BusinessName)
		if name == "" {
			return nil, fmt.Errorf("%w: businessName no puede estar vacío", domain.ErrInvalidInput)
		}
		tenant.BusinessName = name
	}
	if in.SubscriptionPlan != nil {
		if !entity.ValidPlan(*in.SubscriptionPlan) {
			return nil, fmt.Errorf("%w: plan %q no soportado", domain.ErrInvalidInput, *in.SubscriptionPlan)
		}
		tenant.SubscriptionPlan = *in.SubscriptionPlan
	}
	if in.IsActive != nil {
		tenant.IsActive = *in.IsActive
	}
	tenant.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// Delete elimina el tenant y limpia su caché de productos.
func (uc *TenantUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.cache.InvalidateTenant(ctx, id); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", id).Msg("no se pudo limpiar la caché del tenant")
	}
	return nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:               t.ID,
		BusinessName:     t.BusinessName,
		SubscriptionPlan: t.SubscriptionPlan,
		IsActive:         t.IsActive,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
