package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentModel mirrors the 'agents' table.
type AgentModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyName    string     `gorm:"type:varchar(128);uniqueIndex:idx_agents_company_name;not null"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	ContactPerson  string     `gorm:"type:varchar(64)"`
	Phone          string     `gorm:"type:varchar(32)"`
	RelatedSalesID *uuid.UUID `gorm:"type:uuid;index"`
	Status         string     `gorm:"type:varchar(16);index;not null"`
	RejectReason   string     `gorm:"type:text"`
	CreatorID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (AgentModel) TableName() string {
	return "agents"
}

// BeforeCreate assigns a UUID when the caller did not.
func (m *AgentModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
