package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerModel mirrors the 'customers' table.
type CustomerModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"type:varchar(128);uniqueIndex:idx_customers_name;not null"`
	Nature           string    `gorm:"type:varchar(32);index"`
	Importance       string    `gorm:"type:varchar(16);index"`
	ApplicationField string    `gorm:"type:varchar(128)"`
	Progress         string    `gorm:"type:varchar(32);index;not null"`
	Address          string    `gorm:"type:varchar(255)"`
	ContactName      string    `gorm:"type:varchar(64)"`
	ContactPhone     string    `gorm:"type:varchar(32)"`
	ProductNeeds     []string  `gorm:"type:jsonb;serializer:json"`
	AnnualDemand     int64
	Remark           string `gorm:"type:text"`

	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerType string    `gorm:"type:varchar(32);not null"`

	RelatedSalesID *uuid.UUID `gorm:"type:uuid;index"`
	RelatedAgentID *uuid.UUID `gorm:"type:uuid;index"`

	IsInPublicPool         bool `gorm:"index;not null;default:false"`
	EnterPoolTime          *time.Time
	PreviousOwnerID        *uuid.UUID `gorm:"type:uuid"`
	PreviousOwnerType      string     `gorm:"type:varchar(32)"`
	PreviousRelatedSalesID *uuid.UUID `gorm:"type:uuid"`
	PreviousRelatedAgentID *uuid.UUID `gorm:"type:uuid"`

	LastUpdateTime time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (CustomerModel) TableName() string {
	return "customers"
}

// BeforeCreate assigns a UUID when the caller did not.
func (m *CustomerModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
