package cache

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

var _ repository.ProductCache = NoopProductCache{}

// NoopProductCache se usa cuando Redis no está configurado o no responde: siempre miss.
type NoopProductCache struct{}

func (NoopProductCache) Get(_ context.Context, _, _ string) (*entity.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductCache) Set(_ context.Context, _ *entity.Product) error {
	return nil
}

func (NoopProductCache) Invalidate(_ context.Context, _ string, _ ...string) error {
	return nil
}

func (NoopProductCache) InvalidateTenant(_ context.Context, _ string) error {
	return nil
}
