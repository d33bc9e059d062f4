package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceTierModel is one element of the pricing jsonb column.
type PriceTierModel struct {
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ProductModel mirrors the 'products' table.
// Stock is guarded by a check constraint so no write path can drive it negative.
type ProductModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ModelName   string           `gorm:"type:varchar(128);uniqueIndex:idx_products_model_package;not null"`
	PackageType string           `gorm:"type:varchar(64);uniqueIndex:idx_products_model_package;not null"`
	Stock       int64            `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	Pricing     []PriceTierModel `gorm:"type:jsonb;serializer:json;not null"`
	Remark      string           `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// BeforeCreate assigns a UUID when the caller did not.
func (m *ProductModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
