package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerAssignmentHistoryModel mirrors the 'customer_assignment_history' table.
type CustomerAssignmentHistoryModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerName  string     `gorm:"type:varchar(128)"`
	FromSalesID   *uuid.UUID `gorm:"type:uuid"`
	FromSalesName string     `gorm:"type:varchar(128)"`
	FromAgentID   *uuid.UUID `gorm:"type:uuid"`
	FromAgentName string     `gorm:"type:varchar(128)"`
	ToSalesID     *uuid.UUID `gorm:"type:uuid"`
	ToSalesName   string     `gorm:"type:varchar(128)"`
	ToAgentID     *uuid.UUID `gorm:"type:uuid"`
	ToAgentName   string     `gorm:"type:varchar(128)"`
	OperationType string     `gorm:"type:varchar(32);not null"`
	OperatorID    uuid.UUID  `gorm:"type:uuid;not null"`
	OperatorName  string     `gorm:"type:varchar(128)"`
	Remark        string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (CustomerAssignmentHistoryModel) TableName() string {
	return "customer_assignment_history"
}

// BeforeCreate assigns a UUID when the caller did not.
func (m *CustomerAssignmentHistoryModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// CustomerProgressHistoryModel mirrors the 'customer_progress_history' table.
type CustomerProgressHistoryModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerName string    `gorm:"type:varchar(128)"`
	FromProgress string    `gorm:"type:varchar(32);not null"`
	ToProgress   string    `gorm:"type:varchar(32);not null"`
	OperatorID   uuid.UUID `gorm:"type:uuid;not null"`
	OperatorName string    `gorm:"type:varchar(128)"`
	Remark       string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (CustomerProgressHistoryModel) TableName() string {
	return "customer_progress_history"
}

// BeforeCreate assigns a UUID when the caller did not.
func (m *CustomerProgressHistoryModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
