package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
)

// ProductUseCase serves the catalog. Cache failures are logged and the
// store answers instead.
type ProductUseCase struct {
	repository Repository
	cache      ProductCache
	log        *zap.Logger
}

// NewProductUseCase creates the use case. A nil cache disables caching.
func NewProductUseCase(repository Repository, cache ProductCache, log *zap.Logger) *ProductUseCase {
	if cache == nil {
		cache = noCache{}
	}
	return &ProductUseCase{repository: repository, cache: cache, log: log.Named("usecase")}
}

// GetProducts lists the catalog straight from the store.
func (uc *ProductUseCase) GetProducts(ctx context.Context) ([]Product, error) {
	return uc.repository.GetAll(ctx)
}

// GetProduct reads through the cache.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id int) (Product, bool, error) {
	if id <= 0 {
		return Product{}, false, nil
	}

	cached, ok, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.log.Warn("product cache read", zap.Int("product_id", id), zap.Error(err))
	}
	if ok {
		return cached, true, nil
	}

	product, ok, err := uc.repository.FindByID(ctx, id)
	if err != nil || !ok {
		return Product{}, false, err
	}
	if err := uc.cache.Set(ctx, product); err != nil {
		uc.log.Warn("product cache write", zap.Int("product_id", id), zap.Error(err))
	}
	return product, true, nil
}

// CreateProduct adds a product; the store assigns the id.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, product Product) response.Outcome {
	product.ID = 0
	return uc.repository.Add(ctx, product)
}

// UpdateProduct replaces a product and drops its cache entry.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, product Product) response.Outcome {
	if product.ID <= 0 {
		return response.Fail("Invalid data provided")
	}
	out := uc.repository.Update(ctx, product)
	uc.invalidate(ctx, product.ID)
	return out
}

// DeleteProduct removes a product and drops its cache entry.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id int) response.Outcome {
	if id <= 0 {
		return response.Fail("Invalid data provided")
	}
	out := uc.repository.Delete(ctx, id)
	uc.invalidate(ctx, id)
	return out
}

func (uc *ProductUseCase) invalidate(ctx context.Context, id int) {
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.log.Warn("product cache invalidate", zap.Int("product_id", id), zap.Error(err))
	}
}
