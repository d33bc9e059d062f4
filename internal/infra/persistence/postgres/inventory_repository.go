package postgres

import (
	"context"
	"time"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository is the constructor for inventoryRepository.
func NewInventoryRepository(db *gorm.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

// Create appends a record. The unique index on operation_id turns a replay into ErrDuplicateOperation.
func (repo *inventoryRepository) Create(ctx context.Context, record *entity.InventoryRecord) error {
	recordM := fromInventoryRecordDomain(record)
	if err := repo.db.WithContext(ctx).Create(recordM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateOperation
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return wrapDBError(err, "failed to create inventory record")
	}

	record.ID = recordM.ID

	return nil
}

func (repo *inventoryRepository) FindByOperationID(ctx context.Context, operationID string) (*entity.InventoryRecord, error) {
	var recordM model.InventoryRecordModel
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("operation_id = ?", operationID).
		First(&recordM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInventoryRecordNotFound
		}

		return nil, wrapDBError(err, "failed to find inventory record by operation id")
	}

	return toInventoryRecordDomain(&recordM), nil
}

func (repo *inventoryRepository) List(ctx context.Context, filter repository.InventoryFilter) ([]*entity.InventoryRecord, int64, error) {
	q := repo.db.WithContext(ctx).Model(&model.InventoryRecordModel{})
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.OperationType != "" {
		q = q.Where("operation_type = ?", string(filter.OperationType))
	}
	if filter.From != nil {
		q = q.Where("operation_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("operation_time < ?", *filter.To)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to count inventory records")
	}

	var recordModels []*model.InventoryRecordModel
	if err := paginate(q.Order("operation_time DESC"), filter.Page).Find(&recordModels).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to list inventory records")
	}

	records := make([]*entity.InventoryRecord, 0, len(recordModels))
	for _, recordM := range recordModels {
		records = append(records, toInventoryRecordDomain(recordM))
	}

	return records, total, nil
}

func (repo *inventoryRepository) DailyFlow(ctx context.Context, since time.Time) ([]entity.DailyStockFlow, error) {
	var rows []struct {
		Day string
		In  int64
		Out int64
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.InventoryRecordModel{}).
		Select(`to_char(date_trunc('day', operation_time), 'YYYY-MM-DD') AS day,
			COALESCE(SUM(CASE WHEN operation_type = ? THEN quantity ELSE 0 END), 0) AS "in",
			COALESCE(SUM(CASE WHEN operation_type = ? THEN quantity ELSE 0 END), 0) AS "out"`,
			string(entity.StockIn), string(entity.StockOut)).
		Where("operation_time >= ?", since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "failed to aggregate daily stock flow")
	}

	flows := make([]entity.DailyStockFlow, 0, len(rows))
	for _, row := range rows {
		flows = append(flows, entity.DailyStockFlow{Date: row.Day, In: row.In, Out: row.Out})
	}

	return flows, nil
}

func (repo *inventoryRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.InventoryRecordModel{}).
		Where("operation_time >= ?", since).
		Count(&count).Error; err != nil {
		return 0, wrapDBError(err, "failed to count inventory records")
	}

	return count, nil
}

func toInventoryRecordDomain(data *model.InventoryRecordModel) *entity.InventoryRecord {
	if data == nil {
		return nil
	}

	return &entity.InventoryRecord{
		ID:            data.ID,
		ProductID:     data.ProductID,
		OperationType: entity.StockOperationType(data.OperationType),
		Quantity:      data.Quantity,
		StockBefore:   data.StockBefore,
		StockAfter:    data.StockAfter,
		OperatorID:    data.OperatorID,
		OperatorName:  data.OperatorName,
		Remark:        data.Remark,
		OperationID:   data.OperationID,
		OperationTime: data.OperationTime,
	}
}

func fromInventoryRecordDomain(data *entity.InventoryRecord) *model.InventoryRecordModel {
	if data == nil {
		return nil
	}

	return &model.InventoryRecordModel{
		ID:            data.ID,
		ProductID:     data.ProductID,
		OperationType: string(data.OperationType),
		Quantity:      data.Quantity,
		StockBefore:   data.StockBefore,
		StockAfter:    data.StockAfter,
		OperatorID:    data.OperatorID,
		OperatorName:  data.OperatorName,
		Remark:        data.Remark,
		OperationID:   data.OperationID,
		OperationTime: data.OperationTime,
	}
}
