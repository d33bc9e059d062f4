package postgres

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository is the constructor for historyRepository.
func NewHistoryRepository(db *gorm.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (repo *historyRepository) CreateAssignment(ctx context.Context, history *entity.CustomerAssignmentHistory) error {
	historyM := fromAssignmentDomain(history)
	if err := repo.db.WithContext(ctx).Create(historyM).Error; err != nil {
		return wrapDBError(err, "failed to create assignment history")
	}

	history.ID = historyM.ID
	history.CreatedAt = historyM.CreatedAt

	return nil
}

func (repo *historyRepository) CreateProgress(ctx context.Context, history *entity.CustomerProgressHistory) error {
	historyM := fromProgressDomain(history)
	if err := repo.db.WithContext(ctx).Create(historyM).Error; err != nil {
		return wrapDBError(err, "failed to create progress history")
	}

	history.ID = historyM.ID
	history.CreatedAt = historyM.CreatedAt

	return nil
}

func (repo *historyRepository) ListAssignments(ctx context.Context, customerID *uuid.UUID, page entity.Page) ([]*entity.CustomerAssignmentHistory, int64, error) {
	q := repo.db.WithContext(ctx).Model(&model.CustomerAssignmentHistoryModel{})
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to count assignment history")
	}

	var historyModels []*model.CustomerAssignmentHistoryModel
	if err := paginate(q.Order("created_at DESC"), page).Find(&historyModels).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to list assignment history")
	}

	histories := make([]*entity.CustomerAssignmentHistory, 0, len(historyModels))
	for _, historyM := range historyModels {
		histories = append(histories, toAssignmentDomain(historyM))
	}

	return histories, total, nil
}

func (repo *historyRepository) ListProgress(ctx context.Context, customerID *uuid.UUID, page entity.Page) ([]*entity.CustomerProgressHistory, int64, error) {
	q := repo.db.WithContext(ctx).Model(&model.CustomerProgressHistoryModel{})
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to count progress history")
	}

	var historyModels []*model.CustomerProgressHistoryModel
	if err := paginate(q.Order("created_at DESC"), page).Find(&historyModels).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to list progress history")
	}

	histories := make([]*entity.CustomerProgressHistory, 0, len(historyModels))
	for _, historyM := range historyModels {
		histories = append(histories, toProgressDomain(historyM))
	}

	return histories, total, nil
}

func toAssignmentDomain(data *model.CustomerAssignmentHistoryModel) *entity.CustomerAssignmentHistory {
	return &entity.CustomerAssignmentHistory{
		ID:            data.ID,
		CustomerID:    data.CustomerID,
		CustomerName:  data.CustomerName,
		FromSalesID:   data.FromSalesID,
		FromSalesName: data.FromSalesName,
		FromAgentID:   data.FromAgentID,
		FromAgentName: data.FromAgentName,
		ToSalesID:     data.ToSalesID,
		ToSalesName:   data.ToSalesName,
		ToAgentID:     data.ToAgentID,
		ToAgentName:   data.ToAgentName,
		OperationType: entity.AssignmentOperation(data.OperationType),
		OperatorID:    data.OperatorID,
		OperatorName:  data.OperatorName,
		Remark:        data.Remark,
		CreatedAt:     data.CreatedAt,
	}
}

func fromAssignmentDomain(data *entity.CustomerAssignmentHistory) *model.CustomerAssignmentHistoryModel {
	return &model.CustomerAssignmentHistoryModel{
		ID:            data.ID,
		CustomerID:    data.CustomerID,
		CustomerName:  data.CustomerName,
		FromSalesID:   data.FromSalesID,
		FromSalesName: data.FromSalesName,
		FromAgentID:   data.FromAgentID,
		FromAgentName: data.FromAgentName,
		ToSalesID:     data.ToSalesID,
		ToSalesName:   data.ToSalesName,
		ToAgentID:     data.ToAgentID,
		ToAgentName:   data.ToAgentName,
		OperationType: string(data.OperationType),
		OperatorID:    data.OperatorID,
		OperatorName:  data.OperatorName,
		Remark:        data.Remark,
		CreatedAt:     data.CreatedAt,
	}
}

func toProgressDomain(data *model.CustomerProgressHistoryModel) *entity.CustomerProgressHistory {
	return &entity.CustomerProgressHistory{
		ID:           data.ID,
		CustomerID:   data.CustomerID,
		CustomerName: data.CustomerName,
		FromProgress: data.FromProgress,
		ToProgress:   data.ToProgress,
		OperatorID:   data.OperatorID,
		OperatorName: data.OperatorName,
		Remark:       data.Remark,
		CreatedAt:    data.CreatedAt,
	}
}

func fromProgressDomain(data *entity.CustomerProgressHistory) *model.CustomerProgressHistoryModel {
	return &model.CustomerProgressHistoryModel{
		ID:           data.ID,
		CustomerID:   data.CustomerID,
		CustomerName: data.CustomerName,
		FromProgress: data.FromProgress,
		ToProgress:   data.ToProgress,
		OperatorID:   data.OperatorID,
		OperatorName: data.OperatorName,
		Remark:       data.Remark,
		CreatedAt:    data.CreatedAt,
	}
}
