package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowUpRecordModel mirrors the 'follow_up_records' table.
type FollowUpRecordModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Content     string    `gorm:"type:text"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatorName string    `gorm:"type:varchar(128)"`
	CreatorType string    `gorm:"type:varchar(32)"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (FollowUpRecordModel) TableName() string {
	return "follow_up_records"
}

// BeforeCreate assigns a UUID when the caller did not.
func (m *FollowUpRecordModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
