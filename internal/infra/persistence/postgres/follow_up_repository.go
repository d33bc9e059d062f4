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

type followUpRepository struct {
	db *gorm.DB
}

// NewFollowUpRepository is the constructor for followUpRepository.
func NewFollowUpRepository(db *gorm.DB) repository.FollowUpRepository {
	return &followUpRepository{db: db}
}

func (repo *followUpRepository) Create(ctx context.Context, record *entity.FollowUpRecord) error {
	recordM := fromFollowUpDomain(record)
	if err := repo.db.WithContext(ctx).Create(recordM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCustomerNotFound
		}

		return wrapDBError(err, "failed to create follow-up record")
	}

	record.ID = recordM.ID
	record.CreatedAt = recordM.CreatedAt
	record.UpdatedAt = recordM.UpdatedAt

	return nil
}

func (repo *followUpRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FollowUpRecord, error) {
	var recordM model.FollowUpRecordModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&recordM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFollowUpNotFound
		}

		return nil, wrapDBError(err, "failed to find follow-up record")
	}

	return toFollowUpDomain(&recordM), nil
}

func (repo *followUpRepository) Update(ctx context.Context, record *entity.FollowUpRecord) error {
	result := repo.db.WithContext(ctx).
		Model(&model.FollowUpRecordModel{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"title":   record.Title,
			"content": record.Content,
		})
	if result.Error != nil {
		return wrapDBError(result.Error, "failed to update follow-up record")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFollowUpNotFound
	}

	return nil
}

func (repo *followUpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FollowUpRecordModel{})
	if result.Error != nil {
		return wrapDBError(result.Error, "failed to delete follow-up record")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFollowUpNotFound
	}

	return nil
}

func (repo *followUpRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, page entity.Page) ([]*entity.FollowUpRecord, int64, error) {
	q := repo.db.WithContext(ctx).
		Model(&model.FollowUpRecordModel{}).
		Where("customer_id = ?", customerID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to count follow-up records")
	}

	var recordModels []*model.FollowUpRecordModel
	if err := paginate(q.Order("created_at DESC"), page).Find(&recordModels).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to list follow-up records")
	}

	records := make([]*entity.FollowUpRecord, 0, len(recordModels))
	for _, recordM := range recordModels {
		records = append(records, toFollowUpDomain(recordM))
	}

	return records, total, nil
}

func toFollowUpDomain(data *model.FollowUpRecordModel) *entity.FollowUpRecord {
	return &entity.FollowUpRecord{
		ID:          data.ID,
		CustomerID:  data.CustomerID,
		Title:       data.Title,
		Content:     data.Content,
		CreatorID:   data.CreatorID,
		CreatorName: data.CreatorName,
		CreatorType: entity.Role(data.CreatorType),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromFollowUpDomain(data *entity.FollowUpRecord) *model.FollowUpRecordModel {
	return &model.FollowUpRecordModel{
		ID:          data.ID,
		CustomerID:  data.CustomerID,
		Title:       data.Title,
		Content:     data.Content,
		CreatorID:   data.CreatorID,
		CreatorName: data.CreatorName,
		CreatorType: string(data.CreatorType),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
