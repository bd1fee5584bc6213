package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/usecase"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/memory"
)

// fakeCache caché en memoria que cuenta accesos; err simula Redis caído.
type fakeCache struct {
	mu          sync.Mutex
	items       map[string]entity.Product
	hits        int
	sets        int
	invalidated []string
	err         error
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[string]entity.Product{}} }

func (c *fakeCache) Get(_ context.Context, tenantID, sku string) (*entity.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	p, ok := c.items[tenantID+":"+sku]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &p, true, nil
}

func (c *fakeCache) Set(_ context.Context, p *entity.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sets++
	c.items[p.TenantID+":"+p.SKU] = *p
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, tenantID string, skus ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sku := range skus {
		delete(c.items, tenantID+":"+sku)
		c.invalidated = append(c.invalidated, sku)
	}
	return c.err
}

func (c *fakeCache) InvalidateTenant(_ context.Context, tenantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, p := range c.items {
		if p.TenantID == tenantID {
			delete(c.items, k)
		}
	}
	return c.err
}

func ownerOf(tenantID string) entity.Actor {
	return entity.Actor{UserID: uuid.New().String(), Username: "owner", Role: entity.RoleOwner, TenantID: tenantID}
}

func newProductUC(t *testing.T) (*usecase.ProductUseCase, *fakeCache, entity.Actor) {
	t.Helper()
	s := memory.New()
	tenantID := uuid.New().String()
	require.NoError(t, s.Tenants().Create(context.Background(), &entity.Tenant{ID: tenantID, BusinessName: "Bengkel", SubscriptionPlan: entity.PlanLite, IsActive: true}))
	cache := newFakeCache()
	return usecase.NewProductUseCase(s.Products(), cache, zerolog.Nop()), cache, ownerOf(tenantID)
}

func TestProduct_ScanUsaCacheDespuesDeLaPrimeraLectura(t *testing.T) {
	uc, cache, owner := newProductUC(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "AKI001", Name: "Aki Kering", Type: entity.ProductTypeGoods, BasePrice: decimal.NewFromInt(650000)})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultMinStock, created.MinStock)

	first, err := uc.Scan(ctx, owner, "AKI001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, 0, cache.hits)
	assert.Equal(t, 1, cache.sets)

	_, err = uc.Scan(ctx, owner, " AKI001 ")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "la segunda lectura sale de caché")
}

func TestProduct_UpdateInvalidaSkuViejoYNuevo(t *testing.T) {
	uc, cache, owner := newProductUC(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "BAN001", Name: "Ban", Type: entity.ProductTypeGoods})
	require.NoError(t, err)
	_, err = uc.Scan(ctx, owner, "BAN001")
	require.NoError(t, err)

	newSKU := "BAN002"
	price := decimal.NewFromInt(300000)
	updated, err := uc.Update(ctx, owner, created.ID, dto.UpdateProductRequest{SKU: &newSKU, BasePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "BAN002", updated.SKU)
	assert.Contains(t, cache.invalidated, "BAN001")
	assert.Contains(t, cache.invalidated, "BAN002")

	_, err = uc.Scan(ctx, owner, "BAN001")
	assert.ErrorIs(t, err, domain.ErrNotFound, "el SKU viejo ya no se resuelve desde caché")

	got, err := uc.Scan(ctx, owner, "BAN002")
	require.NoError(t, err)
	assert.True(t, got.BasePrice.Equal(price))
}

func TestProduct_CacheCaidaNoCortaLaLectura(t *testing.T) {
	uc, cache, owner := newProductUC(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "OLI001", Name: "Oli", Type: entity.ProductTypeGoods})
	require.NoError(t, err)

	cache.err = errors.New("redis: connection refused")
	got, err := uc.Scan(ctx, owner, "OLI001")
	require.NoError(t, err)
	assert.Equal(t, "OLI001", got.SKU)

	require.NoError(t, uc.Delete(ctx, owner, got.ID), "un fallo al invalidar no impide borrar")
}

func TestProduct_Validaciones(t *testing.T) {
	uc, _, owner := newProductUC(t)
	ctx := context.Background()
	negative := -1

	_, err := uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "X1", Name: "X", Type: "PART"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "X1", Name: "X", Type: entity.ProductTypeGoods, BasePrice: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "X1", Name: "X", Type: entity.ProductTypeGoods, MinStock: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "X1", Name: "X", Type: entity.ProductTypeGoods, BasePrice: decimal.RequireFromString("1000.005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "más de 2 decimales")

	subCent := decimal.RequireFromString("0.001")
	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "X1", Name: "X", Type: entity.ProductTypeGoods, SellPrice: &subCent})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "más de 2 decimales")

	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "X1", Name: "X", Type: entity.ProductTypeGoods})
	require.NoError(t, err)
	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "X1", Name: "Otro", Type: entity.ProductTypeService})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "SKU único por tenant")

	other := ownerOf(uuid.New().String())
	_, err = uc.Create(ctx, other, dto.CreateProductRequest{SKU: "X1", Name: "X", Type: entity.ProductTypeGoods})
	assert.NoError(t, err, "otro tenant puede repetir el SKU")
}

func TestProduct_SearchSinDistinguirMayusculas(t *testing.T) {
	uc, _, owner := newProductUC(t)
	ctx := context.Background()
	for _, p := range []dto.CreateProductRequest{
		{SKU: "OLI001", Name: "Oli Mesin", Type: entity.ProductTypeGoods},
		{SKU: "OLI002", Name: "Oli Gardan", Type: entity.ProductTypeGoods},
		{SKU: "SVC001", Name: "Ganti Oli", Type: entity.ProductTypeService},
		{SKU: "BAN001", Name: "Ban", Type: entity.ProductTypeGoods},
	} {
		_, err := uc.Create(ctx, owner, p)
		require.NoError(t, err)
	}

	found, err := uc.Search(ctx, owner, "oli")
	require.NoError(t, err)
	assert.Len(t, found, 3)

	empty, err := uc.Search(ctx, owner, "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	page, err := uc.List(ctx, owner, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page.Limit)
}
