package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRecordModel mirrors the append-only 'inventory_records' table.
type InventoryRecordModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid;index;not null"`
	OperationType string    `gorm:"type:varchar(8);index;not null"`
	Quantity      int64     `gorm:"not null"`
	StockBefore   int64     `gorm:"not null"`
	StockAfter    int64     `gorm:"not null"`
	OperatorID    uuid.UUID `gorm:"type:uuid;not null"`
	OperatorName  string    `gorm:"type:varchar(128)"`
	Remark        string    `gorm:"type:text"`
	OperationID   string    `gorm:"type:varchar(128);uniqueIndex:idx_inventory_records_operation_id;not null"`
	OperationTime time.Time `gorm:"index;not null"`
}

// TableName explicitly sets the table name for GORM.
func (InventoryRecordModel) TableName() string {
	return "inventory_records"
}

// BeforeCreate assigns a UUID when the caller did not.
func (m *InventoryRecordModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
