package impl

import (
	"context"

	"crm/internal/domain/entity"
	"crm/internal/domain/repository"

	"github.com/google/uuid"
)

// idSet collects distinct ids for a batched lookup.
type idSet struct {
	ids  []uuid.UUID
	seen map[uuid.UUID]struct{}
}

func newIDSet() *idSet {
	return &idSet{seen: map[uuid.UUID]struct{}{}}
}

func (s *idSet) add(id *uuid.UUID) {
	if id == nil || *id == uuid.Nil {
		return
	}
	if _, ok := s.seen[*id]; ok {
		return
	}
	s.seen[*id] = struct{}{}
	s.ids = append(s.ids, *id)
}

// names maps user and agent ids to display labels.
type names struct {
	users  map[uuid.UUID]string
	agents map[uuid.UUID]string
}

func (n names) user(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return n.users[*id]
}

func (n names) agent(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return n.agents[*id]
}

// owner resolves an owner id in the table its role points at.
func (n names) owner(id uuid.UUID, role entity.Role) string {
	if role == entity.RoleAgent {
		return n.agents[id]
	}

	return n.users[id]
}

// nameResolver loads labels for related sales representatives and agents in two queries.
type nameResolver struct {
	userRepo  repository.UserRepository
	agentRepo repository.AgentRepository
}

func (r nameResolver) resolve(ctx context.Context, userIDs, agentIDs *idSet) (names, error) {
	result := names{users: map[uuid.UUID]string{}, agents: map[uuid.UUID]string{}}

	if userIDs != nil && len(userIDs.ids) > 0 {
		users, err := r.userRepo.FindByIDs(ctx, userIDs.ids)
		if err != nil {
			return result, err
		}
		for _, u := range users {
			result.users[u.ID] = u.Username
		}
	}

	if agentIDs != nil && len(agentIDs.ids) > 0 {
		agents, err := r.agentRepo.FindByIDs(ctx, agentIDs.ids)
		if err != nil {
			return result, err
		}
		for _, a := range agents {
			result.agents[a.ID] = a.CompanyName
		}
	}

	return result, nil
}

// relationNames resolves the labels of every side of the given relations.
func (r nameResolver) relationNames(ctx context.Context, relations ...entity.Relation) (names, error) {
	userIDs, agentIDs := newIDSet(), newIDSet()
	for _, rel := range relations {
		userIDs.add(rel.SalesID)
		agentIDs.add(rel.AgentID)
	}

	return r.resolve(ctx, userIDs, agentIDs)
}
