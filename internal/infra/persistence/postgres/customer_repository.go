package postgres

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository is the constructor for customerRepository.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (repo *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customerM model.CustomerModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&customerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, wrapDBError(err, "failed to find customer by id")
	}

	return toCustomerDomain(&customerM), nil
}

func (repo *customerRepository) FindByName(ctx context.Context, name string) (*entity.Customer, error) {
	var customerM model.CustomerModel
	if err := repo.db.WithContext(ctx).Where("name = ?", name).First(&customerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, wrapDBError(err, "failed to find customer by name")
	}

	return toCustomerDomain(&customerM), nil
}

// filtered builds the WHERE clause shared by List, Count and CountGroupBy.
func (repo *customerRepository) filtered(ctx context.Context, filter repository.CustomerFilter) *gorm.DB {
	q := repo.db.WithContext(ctx).Model(&model.CustomerModel{}).
		Where("is_in_public_pool = ?", filter.InPublicPool)

	if filter.VisibleToSalesID != nil {
		q = q.Where("(related_sales_id = ? OR owner_id = ?)", *filter.VisibleToSalesID, *filter.VisibleToSalesID)
	}
	if filter.VisibleToAgentID != nil {
		q = q.Where("(related_agent_id = ? OR owner_id = ?)", *filter.VisibleToAgentID, *filter.VisibleToAgentID)
	}
	if filter.RelatedSalesID != nil {
		q = q.Where("related_sales_id = ?", *filter.RelatedSalesID)
	}
	if filter.RelatedAgentID != nil {
		q = q.Where("related_agent_id = ?", *filter.RelatedAgentID)
	}
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		q = q.Where("(name ILIKE ? OR contact_name ILIKE ? OR application_field ILIKE ?)", pattern, pattern, pattern)
	}
	if filter.Progress != "" {
		q = q.Where("progress = ?", string(filter.Progress))
	}
	if filter.Importance != "" {
		q = q.Where("importance = ?", string(filter.Importance))
	}

	return q.Session(&gorm.Session{})
}

// List returns customers ordered by last activity.
func (repo *customerRepository) List(ctx context.Context, filter repository.CustomerFilter) ([]*entity.Customer, int64, error) {
	q := repo.filtered(ctx, filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to count customers")
	}

	order := "last_update_time DESC"
	if filter.InPublicPool {
		order = "enter_pool_time DESC"
	}

	var customerModels []*model.CustomerModel
	if err := paginate(q.Order(order), filter.Page).Find(&customerModels).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to list customers")
	}

	customers := make([]*entity.Customer, 0, len(customerModels))
	for _, customerM := range customerModels {
		customers = append(customers, toCustomerDomain(customerM))
	}

	return customers, total, nil
}

func (repo *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)
	if err := repo.db.WithContext(ctx).Create(customerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCustomer
		}

		return wrapDBError(err, "failed to create customer")
	}

	customer.ID = customerM.ID
	customer.CreatedAt = customerM.CreatedAt
	customer.UpdatedAt = customerM.UpdatedAt

	return nil
}

// Update writes the full row; zero values such as cleared relations are persisted.
func (repo *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)
	result := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ?", customer.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(customerM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateCustomer
		}

		return wrapDBError(result.Error, "failed to update customer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	customer.UpdatedAt = customerM.UpdatedAt

	return nil
}

func (repo *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CustomerModel{})
	if result.Error != nil {
		return wrapDBError(result.Error, "failed to delete customer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

func (repo *customerRepository) Count(ctx context.Context, filter repository.CustomerFilter) (int64, error) {
	var count int64
	if err := repo.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, wrapDBError(err, "failed to count customers")
	}

	return count, nil
}

func (repo *customerRepository) CountGroupBy(ctx context.Context, filter repository.CustomerFilter, field repository.CustomerGroupField) ([]entity.CountBucket, error) {
	var column string
	switch field {
	case repository.GroupByProgress, repository.GroupByImportance, repository.GroupByNature:
		column = string(field)
	default:
		return nil, errors.Errorf("unsupported customer group field %q", field)
	}

	var rows []struct {
		Label string
		Count int64
	}
	if err := repo.filtered(ctx, filter).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "failed to group customers")
	}

	buckets := make([]entity.CountBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, entity.CountBucket{Label: row.Label, Count: row.Count})
	}

	return buckets, nil
}

func toCustomerDomain(data *model.CustomerModel) *entity.Customer {
	if data == nil {
		return nil
	}

	return &entity.Customer{
		ID:                     data.ID,
		Name:                   data.Name,
		Nature:                 entity.CustomerNature(data.Nature),
		Importance:             entity.CustomerImportance(data.Importance),
		ApplicationField:       data.ApplicationField,
		Progress:               entity.CustomerProgress(data.Progress),
		Address:                data.Address,
		ContactName:            data.ContactName,
		ContactPhone:           data.ContactPhone,
		ProductNeeds:           data.ProductNeeds,
		AnnualDemand:           data.AnnualDemand,
		Remark:                 data.Remark,
		OwnerID:                data.OwnerID,
		OwnerType:              entity.Role(data.OwnerType),
		RelatedSalesID:         data.RelatedSalesID,
		RelatedAgentID:         data.RelatedAgentID,
		IsInPublicPool:         data.IsInPublicPool,
		EnterPoolTime:          data.EnterPoolTime,
		PreviousOwnerID:        data.PreviousOwnerID,
		PreviousOwnerType:      entity.Role(data.PreviousOwnerType),
		PreviousRelatedSalesID: data.PreviousRelatedSalesID,
		PreviousRelatedAgentID: data.PreviousRelatedAgentID,
		LastUpdateTime:         data.LastUpdateTime,
		CreatedAt:              data.CreatedAt,
		UpdatedAt:              data.UpdatedAt,
	}
}

func fromCustomerDomain(data *entity.Customer) *model.CustomerModel {
	if data == nil {
		return nil
	}

	return &model.CustomerModel{
		ID:                     data.ID,
		Name:                   data.Name,
		Nature:                 string(data.Nature),
		Importance:             string(data.Importance),
		ApplicationField:       data.ApplicationField,
		Progress:               string(data.Progress),
		Address:                data.Address,
		ContactName:            data.ContactName,
		ContactPhone:           data.ContactPhone,
		ProductNeeds:           data.ProductNeeds,
		AnnualDemand:           data.AnnualDemand,
		Remark:                 data.Remark,
		OwnerID:                data.OwnerID,
		OwnerType:              string(data.OwnerType),
		RelatedSalesID:         data.RelatedSalesID,
		RelatedAgentID:         data.RelatedAgentID,
		IsInPublicPool:         data.IsInPublicPool,
		EnterPoolTime:          data.EnterPoolTime,
		PreviousOwnerID:        data.PreviousOwnerID,
		PreviousOwnerType:      string(data.PreviousOwnerType),
		PreviousRelatedSalesID: data.PreviousRelatedSalesID,
		PreviousRelatedAgentID: data.PreviousRelatedAgentID,
		LastUpdateTime:         data.LastUpdateTime,
		CreatedAt:              data.CreatedAt,
		UpdatedAt:              data.UpdatedAt,
	}
}
