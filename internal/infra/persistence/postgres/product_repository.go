package postgres

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, wrapDBError(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

func (repo *productRepository) FindByModelAndPackage(ctx context.Context, modelName, packageType string) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("model_name = ? AND package_type = ?", modelName, packageType).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, wrapDBError(err, "failed to find product by model and package")
	}

	return toProductDomain(&productM), nil
}

func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, wrapDBError(err, "failed to find products by ids")
	}

	return toProductDomains(productModels), nil
}

func (repo *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, int64, error) {
	q := repo.db.WithContext(ctx).Model(&model.ProductModel{})
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		q = q.Where("(model_name ILIKE ? OR package_type ILIKE ? OR remark ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.PackageType != "" {
		q = q.Where("package_type = ?", filter.PackageType)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to count products")
	}

	var productModels []*model.ProductModel
	if err := paginate(q.Order("model_name ASC, package_type ASC"), filter.Page).Find(&productModels).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to list products")
	}

	return toProductDomains(productModels), total, nil
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateProduct
		}
		if isCheckConstraintViolation(err) {
			return repository.ErrInsufficientStock
		}

		return wrapDBError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update saves the catalog columns. Stock is deliberately left out of the column list.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Select("model_name", "package_type", "pricing", "remark", "updated_at").
		Updates(productM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateProduct
		}

		return wrapDBError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	product.UpdatedAt = productM.UpdatedAt

	return nil
}

func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProductModel{})
	if result.Error != nil {
		return wrapDBError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// AdjustStock applies delta with a single conditional UPDATE so concurrent mutations never
// observe or produce negative stock.
func (repo *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	var row struct {
		Stock int64
	}

	result := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Raw(`UPDATE products SET stock = stock + ?, updated_at = NOW()
			WHERE id = ? AND stock + ? >= 0
			RETURNING stock`, delta, id, delta).
		Scan(&row)
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return 0, repository.ErrInsufficientStock
		}

		return 0, wrapDBError(result.Error, "failed to adjust stock")
	}

	if result.RowsAffected > 0 {
		return row.Stock, nil
	}

	var exists int64
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Count(&exists).Error; err != nil {
		return 0, wrapDBError(err, "failed to check product after stock update")
	}
	if exists == 0 {
		return 0, repository.ErrProductNotFound
	}

	return 0, repository.ErrInsufficientStock
}

func (repo *productRepository) CurrentStock(ctx context.Context, id uuid.UUID) (int64, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Select("stock").
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, repository.ErrProductNotFound
		}

		return 0, wrapDBError(err, "failed to read current stock")
	}

	return productM.Stock, nil
}

func (repo *productRepository) Totals(ctx context.Context) (int64, int64, error) {
	var row struct {
		Count int64
		Stock int64
	}
	if err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(stock), 0) AS stock").
		Scan(&row).Error; err != nil {
		return 0, 0, wrapDBError(err, "failed to total products")
	}

	return row.Count, row.Stock, nil
}

func (repo *productRepository) TopByStock(ctx context.Context, limit int) ([]*entity.Product, error) {
	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).
		Order("stock DESC, model_name ASC").
		Limit(limit).
		Find(&productModels).Error; err != nil {
		return nil, wrapDBError(err, "failed to list top stock products")
	}

	return toProductDomains(productModels), nil
}

func (repo *productRepository) LowStock(ctx context.Context, threshold int64, limit int) ([]*entity.Product, error) {
	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC, model_name ASC").
		Limit(limit).
		Find(&productModels).Error; err != nil {
		return nil, wrapDBError(err, "failed to list low stock products")
	}

	return toProductDomains(productModels), nil
}

func toProductDomains(productModels []*model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	pricing := make(entity.Pricing, 0, len(data.Pricing))
	for _, tier := range data.Pricing {
		pricing = append(pricing, entity.PriceTier{Quantity: tier.Quantity, Price: tier.Price})
	}

	return &entity.Product{
		ID:          data.ID,
		ModelName:   data.ModelName,
		PackageType: data.PackageType,
		Stock:       data.Stock,
		Pricing:     pricing,
		Remark:      data.Remark,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	pricing := make([]model.PriceTierModel, 0, len(data.Pricing))
	for _, tier := range data.Pricing {
		pricing = append(pricing, model.PriceTierModel{Quantity: tier.Quantity, Price: tier.Price})
	}

	return &model.ProductModel{
		ID:          data.ID,
		ModelName:   data.ModelName,
		PackageType: data.PackageType,
		Stock:       data.Stock,
		Pricing:     pricing,
		Remark:      data.Remark,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
