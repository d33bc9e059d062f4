package impl

import (
	"context"
	"time"

	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// salesTarget loads an approved factory sales representative that customers can be assigned to.
func salesTarget(ctx context.Context, userRepo repository.UserRepository, id uuid.UUID) (*entity.User, error) {
	user, err := userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrInvalidAssignTarget.WithDetails("销售不存在")
	}
	if err != nil {
		return nil, translateRepoError(err)
	}
	if user.Role != entity.RoleFactorySales || user.Status != entity.StatusApproved {
		return nil, domainerrors.ErrInvalidAssignTarget.WithDetails("目标用户不是已审核的厂家销售")
	}

	return user, nil
}

// agentTarget loads an approved agent that customers can be assigned to.
func agentTarget(ctx context.Context, agentRepo repository.AgentRepository, id uuid.UUID) (*entity.Agent, error) {
	agent, err := agentRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrAgentNotFound) {
		return nil, domainerrors.ErrInvalidAssignTarget.WithDetails("代理商不存在")
	}
	if err != nil {
		return nil, translateRepoError(err)
	}
	if agent.Status != entity.StatusApproved {
		return nil, domainerrors.ErrInvalidAssignTarget.WithDetails("代理商尚未审核通过")
	}

	return agent, nil
}

// validateRelation checks that every side of rel points at an assignable account.
func validateRelation(ctx context.Context, userRepo repository.UserRepository, agentRepo repository.AgentRepository, rel entity.Relation) error {
	if rel.SalesID != nil {
		if _, err := salesTarget(ctx, userRepo, *rel.SalesID); err != nil {
			return err
		}
	}
	if rel.AgentID != nil {
		if _, err := agentTarget(ctx, agentRepo, *rel.AgentID); err != nil {
			return err
		}
	}

	return nil
}

func newAssignmentHistory(
	customer *entity.Customer,
	from, to entity.Relation,
	labels names,
	op entity.AssignmentOperation,
	actor entity.Principal,
	remark string,
	now time.Time,
) *entity.CustomerAssignmentHistory {
	return &entity.CustomerAssignmentHistory{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		FromSalesID:   from.SalesID,
		FromSalesName: labels.user(from.SalesID),
		FromAgentID:   from.AgentID,
		FromAgentName: labels.agent(from.AgentID),
		ToSalesID:     to.SalesID,
		ToSalesName:   labels.user(to.SalesID),
		ToAgentID:     to.AgentID,
		ToAgentName:   labels.agent(to.AgentID),
		OperationType: op,
		OperatorID:    actor.ID,
		OperatorName:  actor.Username,
		Remark:        remark,
		CreatedAt:     now,
	}
}

func newProgressHistory(customer *entity.Customer, from, to string, actor entity.Principal, remark string, now time.Time) *entity.CustomerProgressHistory {
	return &entity.CustomerProgressHistory{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		FromProgress: from,
		ToProgress:   to,
		OperatorID:   actor.ID,
		OperatorName: actor.Username,
		Remark:       remark,
		CreatedAt:    now,
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
