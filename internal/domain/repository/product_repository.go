package repository

import (
	"context"

	"crm/internal/domain/entity"

	"github.com/google/uuid"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Keyword     string
	PackageType string
	Page        entity.Page
}

// ProductRepository defines the persistence operations for products.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindByModelAndPackage(ctx context.Context, modelName, packageType string) (*entity.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int64, error)
	Create(ctx context.Context, product *entity.Product) error

	// Update saves catalog fields. Stock is never written here.
	Update(ctx context.Context, product *entity.Product) error

	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock atomically adds delta to the stock and returns the new value.
	// A negative delta only applies when enough stock is available, otherwise ErrInsufficientStock.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error)

	// CurrentStock reads the stock from the primary so a just-committed mutation is visible.
	CurrentStock(ctx context.Context, id uuid.UUID) (int64, error)

	// Totals returns the product count and the summed stock.
	Totals(ctx context.Context) (count int64, stock int64, err error)

	// TopByStock lists the products with the highest stock.
	TopByStock(ctx context.Context, limit int) ([]*entity.Product, error)

	// LowStock lists products whose stock is at or below threshold, lowest first.
	LowStock(ctx context.Context, threshold int64, limit int) ([]*entity.Product, error)
}
