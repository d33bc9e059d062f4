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

type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository is the constructor for agentRepository.
func NewAgentRepository(db *gorm.DB) repository.AgentRepository {
	return &agentRepository{db: db}
}

func (repo *agentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	var agentM model.AgentModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&agentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAgentNotFound
		}

		return nil, wrapDBError(err, "failed to find agent by id")
	}

	return toAgentDomain(&agentM), nil
}

func (repo *agentRepository) FindByCompanyName(ctx context.Context, companyName string) (*entity.Agent, error) {
	var agentM model.AgentModel
	if err := repo.db.WithContext(ctx).Where("company_name = ?", companyName).First(&agentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAgentNotFound
		}

		return nil, wrapDBError(err, "failed to find agent by company name")
	}

	return toAgentDomain(&agentM), nil
}

func (repo *agentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Agent, error) {
	if len(ids) == 0 {
		return []*entity.Agent{}, nil
	}

	var agentModels []*model.AgentModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&agentModels).Error; err != nil {
		return nil, wrapDBError(err, "failed to find agents by ids")
	}

	return toAgentDomains(agentModels), nil
}

func (repo *agentRepository) filtered(ctx context.Context, filter repository.AgentFilter) *gorm.DB {
	q := repo.db.WithContext(ctx).Model(&model.AgentModel{})
	if filter.RelatedSalesID != nil {
		q = q.Where("related_sales_id = ?", *filter.RelatedSalesID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		q = q.Where("company_name ILIKE ? OR contact_person ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	// A fresh session lets Count and Find share the filter chain.
	return q.Session(&gorm.Session{})
}

func (repo *agentRepository) List(ctx context.Context, filter repository.AgentFilter) ([]*entity.Agent, int64, error) {
	q := repo.filtered(ctx, filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to count agents")
	}

	var agentModels []*model.AgentModel
	if err := paginate(q.Order("created_at DESC"), filter.Page).Find(&agentModels).Error; err != nil {
		return nil, 0, wrapDBError(err, "failed to list agents")
	}

	return toAgentDomains(agentModels), total, nil
}

func (repo *agentRepository) Create(ctx context.Context, agent *entity.Agent) error {
	agentM := fromAgentDomain(agent)
	if err := repo.db.WithContext(ctx).Create(agentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCompanyName
		}

		return wrapDBError(err, "failed to create agent")
	}

	agent.ID = agentM.ID
	agent.CreatedAt = agentM.CreatedAt
	agent.UpdatedAt = agentM.UpdatedAt

	return nil
}

func (repo *agentRepository) Update(ctx context.Context, agent *entity.Agent) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AgentModel{}).
		Where("id = ?", agent.ID).
		Updates(map[string]any{
			"company_name":     agent.CompanyName,
			"password_hash":    agent.PasswordHash,
			"contact_person":   agent.ContactPerson,
			"phone":            agent.Phone,
			"related_sales_id": agent.RelatedSalesID,
			"status":           string(agent.Status),
			"reject_reason":    agent.RejectReason,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateCompanyName
		}

		return wrapDBError(result.Error, "failed to update agent")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAgentNotFound
	}

	return nil
}

func (repo *agentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AgentModel{})
	if result.Error != nil {
		return wrapDBError(result.Error, "failed to delete agent")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAgentNotFound
	}

	return nil
}

func (repo *agentRepository) Count(ctx context.Context, filter repository.AgentFilter) (int64, error) {
	var count int64
	if err := repo.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, wrapDBError(err, "failed to count agents")
	}

	return count, nil
}

func toAgentDomains(agentModels []*model.AgentModel) []*entity.Agent {
	agents := make([]*entity.Agent, 0, len(agentModels))
	for _, agentM := range agentModels {
		agents = append(agents, toAgentDomain(agentM))
	}

	return agents
}

func toAgentDomain(data *model.AgentModel) *entity.Agent {
	if data == nil {
		return nil
	}

	return &entity.Agent{
		ID:             data.ID,
		CompanyName:    data.CompanyName,
		PasswordHash:   data.PasswordHash,
		ContactPerson:  data.ContactPerson,
		Phone:          data.Phone,
		RelatedSalesID: data.RelatedSalesID,
		Status:         entity.ApprovalStatus(data.Status),
		RejectReason:   data.RejectReason,
		CreatorID:      data.CreatorID,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromAgentDomain(data *entity.Agent) *model.AgentModel {
	if data == nil {
		return nil
	}

	return &model.AgentModel{
		ID:             data.ID,
		CompanyName:    data.CompanyName,
		PasswordHash:   data.PasswordHash,
		ContactPerson:  data.ContactPerson,
		Phone:          data.Phone,
		RelatedSalesID: data.RelatedSalesID,
		Status:         string(data.Status),
		RejectReason:   data.RejectReason,
		CreatorID:      data.CreatorID,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
