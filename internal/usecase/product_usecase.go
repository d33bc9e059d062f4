package usecase

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
)

// CreateProductInput defines a new catalog item. A positive Stock is booked as an initial stock-in.
type CreateProductInput struct {
	ModelName   string
	PackageType string
	Stock       int64
	Pricing     entity.Pricing
	Remark      string
}

// UpdateProductInput carries catalog changes. Stock is not editable here.
type UpdateProductInput struct {
	ModelName   *string
	PackageType *string
	Pricing     entity.Pricing
	Remark      *string
}

// ProductUsecase defines catalog management.
type ProductUsecase interface {
	List(ctx context.Context, filter repository.ProductFilter) (*PageResult[*entity.Product], error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	Create(ctx context.Context, actor entity.Principal, input CreateProductInput) (*entity.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*entity.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Export lists every product matching filter, ignoring paging.
	Export(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error)
}
