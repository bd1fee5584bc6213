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
	"github.com/jhoicas/bengkel-pos/internal/domain/pos"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SearchLimit máximo de resultados de la búsqueda rápida del POS.
const SearchLimit = 20

// ProductUseCase catálogo de productos con caché de lectura por SKU.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache repository.ProductCache
	log   zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, cache repository.ProductCache, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, cache: cache, log: log}
}

func validatePrices(base decimal.Decimal, sell *decimal.Decimal) error {
	if base.IsNegative() {
		return fmt.Errorf("%w: basePrice no puede ser negativo", domain.ErrInvalidInput)
	}
	if sell != nil && sell.IsNegative() {
		return fmt.Errorf("%w: sellPrice no puede ser negativo", domain.ErrInvalidInput)
	}
	if !pos.FitsMoneyScale(base) || (sell != nil && !pos.FitsMoneyScale(*sell)) {
		return fmt.Errorf("%w: los precios admiten como máximo %d decimales", domain.ErrInvalidInput, pos.MoneyScale)
	}
	return nil
}

// Create crea un producto. SKU único por tenant.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku y name son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.ValidProductType(in.Type) {
		return nil, fmt.Errorf("%w: type debe ser GOODS o SERVICE", domain.ErrInvalidInput)
	}
	if err := validatePrices(in.BasePrice, in.SellPrice); err != nil {
		return nil, err
	}
	minStock := entity.DefaultMinStock
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, fmt.Errorf("%w: minStock no puede ser negativo", domain.ErrInvalidInput)
		}
		minStock = *in.MinStock
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		TenantID:        actor.TenantID,
		SKU:             sku,
		Name:            name,
		Type:            in.Type,
		BasePrice:       in.BasePrice,
		SellPrice:       in.SellPrice,
		IsFlexiblePrice: in.IsFlexiblePrice,
		ImageURL:        in.ImageURL,
		MinStock:        minStock,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, actor.TenantID, sku)
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	return product, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Scan lectura por SKU (escáner de código de barras). Primero caché, luego DB; los fallos de caché no cortan la respuesta.
func (uc *ProductUseCase) Scan(ctx context.Context, actor entity.Actor, sku string) (*dto.ProductResponse, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku es obligatorio", domain.ErrInvalidInput)
	}
	cached, ok, err := uc.cache.Get(ctx, actor.TenantID, sku)
	if err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", actor.TenantID).Str("sku", sku).Msg("caché de productos no disponible")
	}
	if ok && cached != nil {
		return toProductResponse(cached), nil
	}

	product, err := uc.repo.GetBySKU(ctx, actor.TenantID, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto con SKU %s", domain.ErrNotFound, sku)
	}
	if err := uc.cache.Set(ctx, product); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", actor.TenantID).Str("sku", sku).Msg("no se pudo guardar el producto en caché")
	}
	return toProductResponse(product), nil
}

// Search nombre o SKU que contenga q, sin distinguir mayúsculas.
func (uc *ProductUseCase) Search(ctx context.Context, actor entity.Actor, q string) ([]dto.ProductResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.ProductResponse{}, nil
	}
	list, err := uc.repo.Search(ctx, actor.TenantID, q, SearchLimit)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// List lista productos del tenant con paginación.
func (uc *ProductUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, actor.TenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update aplica los campos presentes e invalida el SKU anterior y el nuevo.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	oldSKU := product.SKU
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, fmt.Errorf("%w: sku no puede estar vacío", domain.ErrInvalidInput)
		}
		product.SKU = sku
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Type != nil {
		if !entity.ValidProductType(*in.Type) {
			return nil, fmt.Errorf("%w: type debe ser GOODS o SERVICE", domain.ErrInvalidInput)
		}
		product.Type = *in.Type
	}
	if in.BasePrice != nil {
		product.BasePrice = *in.BasePrice
	}
	if in.SellPrice != nil {
		product.SellPrice = in.SellPrice
	}
	if err := validatePrices(product.BasePrice, product.SellPrice); err != nil {
		return nil, err
	}
	if in.IsFlexiblePrice != nil {
		product.IsFlexiblePrice = *in.IsFlexiblePrice
	}
	if in.ImageURL != nil {
		product.ImageURL = in.ImageURL
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, fmt.Errorf("%w: minStock no puede ser negativo", domain.ErrInvalidInput)
		}
		product.MinStock = *in.MinStock
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if product.SKU != oldSKU {
		uc.invalidate(ctx, actor.TenantID, oldSKU, product.SKU)
	} else {
		uc.invalidate(ctx, actor.TenantID, oldSKU)
	}
	return toProductResponse(product), nil
}

// Delete elimina el producto e invalida su SKU.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	product, err := uc.get(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return err
	}
	uc.invalidate(ctx, actor.TenantID, product.SKU)
	return nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context, tenantID string, skus ...string) {
	if err := uc.cache.Invalidate(ctx, tenantID, skus...); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Strs("skus", skus).Msg("no se pudo invalidar la caché de productos")
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:              p.ID,
		TenantID:        p.TenantID,
		SKU:             p.SKU,
		Name:            p.Name,
		Type:            p.Type,
		BasePrice:       p.BasePrice,
		SellPrice:       p.SellPrice,
		IsFlexiblePrice: p.IsFlexiblePrice,
		ImageURL:        p.ImageURL,
		MinStock:        p.MinStock,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
