package usecase

import (
	"context"

	"crm/internal/domain/entity"
)

// DashboardUsecase builds chart-ready aggregates. Customer figures honour the caller's visibility.
type DashboardUsecase interface {
	Overview(ctx context.Context, actor entity.Principal) (*entity.DashboardOverview, error)
	Stats(ctx context.Context, actor entity.Principal) (*entity.DashboardStats, error)
}
