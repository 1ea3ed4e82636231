package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/database"
	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store"
)

// ErrRetrieve replaces store faults on read paths.
var ErrRetrieve = errors.New("error occurred retrieving products")

// Repository stores catalog entries.
type Repository interface {
	Add(ctx context.Context, product Product) response.Outcome
	Update(ctx context.Context, product Product) response.Outcome
	Delete(ctx context.Context, id int) response.Outcome
	FindByID(ctx context.Context, id int) (Product, bool, error)
	GetAll(ctx context.Context) ([]Product, error)
}

// ProductRepository implements Repository over a record store.
type ProductRepository struct {
	store store.Store[Product]
	log   *zap.Logger
}

// NewProductRepository creates a repository over s.
func NewProductRepository(s store.Store[Product], log *zap.Logger) *ProductRepository {
	return &ProductRepository{store: s, log: log.Named("repository")}
}

func byName(name string) store.Predicate[Product] {
	return store.Where("name", name, func(p Product) bool { return p.Name == name })
}

// Add rejects a product whose name is already in the catalog.
func (r *ProductRepository) Add(ctx context.Context, product Product) response.Outcome {
	_, exists, err := r.store.First(ctx, byName(product.Name))
	if err != nil {
		r.log.Error("check product name", zap.String("name", product.Name), zap.Error(err))
		return response.Fail("Error occurred adding new product")
	}
	if exists {
		return response.Fail(fmt.Sprintf("%s already added", product.Name))
	}

	saved, err := r.store.Insert(ctx, product)
	switch {
	case database.IsUniqueViolation(err) || errors.Is(err, store.ErrConflict):
		return response.Fail(fmt.Sprintf("%s already added", product.Name))
	case err != nil:
		r.log.Error("add product", zap.String("name", product.Name), zap.Error(err))
		return response.Fail("Error occurred adding new product")
	case saved.ID <= 0:
		return response.Fail(fmt.Sprintf("Error occurred while adding %s", product.Name))
	}
	return response.OK(fmt.Sprintf("%s added to database successfully", product.Name))
}

// Update rejects a name already used by another product.
func (r *ProductRepository) Update(ctx context.Context, product Product) response.Outcome {
	other, exists, err := r.store.First(ctx, byName(product.Name))
	if err != nil {
		r.log.Error("check product name", zap.String("name", product.Name), zap.Error(err))
		return response.Fail("Error occurred updating existing product")
	}
	if exists && other.ID != product.ID {
		return response.Fail(fmt.Sprintf("%s already added", product.Name))
	}

	err = r.store.Update(ctx, product)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return response.Fail(fmt.Sprintf("%s not found", product.Name))
	case database.IsUniqueViolation(err):
		return response.Fail(fmt.Sprintf("%s already added", product.Name))
	case err != nil:
		r.log.Error("update product", zap.Int("product_id", product.ID), zap.Error(err))
		return response.Fail("Error occurred updating existing product")
	}
	return response.OK(fmt.Sprintf("%s is updated successfully", product.Name))
}

func (r *ProductRepository) Delete(ctx context.Context, id int) response.Outcome {
	current, ok, err := r.store.Get(ctx, id)
	if err != nil {
		r.log.Error("find product", zap.Int("product_id", id), zap.Error(err))
		return response.Fail("Error occurred deleting product")
	}
	if !ok {
		return response.Fail("Product not found")
	}

	err = r.store.Delete(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return response.Fail("Product not found")
	case err != nil:
		r.log.Error("delete product", zap.Int("product_id", id), zap.Error(err))
		return response.Fail("Error occurred deleting product")
	}
	return response.OK(fmt.Sprintf("%s is deleted successfully", current.Name))
}

func (r *ProductRepository) FindByID(ctx context.Context, id int) (Product, bool, error) {
	product, ok, err := r.store.Get(ctx, id)
	if err != nil {
		r.log.Error("find product", zap.Int("product_id", id), zap.Error(err))
		return Product{}, false, ErrRetrieve
	}
	return product, ok, nil
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]Product, error) {
	products, err := r.store.List(ctx)
	if err != nil {
		r.log.Error("list products", zap.Error(err))
		return nil, ErrRetrieve
	}
	return products, nil
}
