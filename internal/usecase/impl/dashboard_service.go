package impl

import (
	"context"
	"log/slog"
	"time"

	"crm/config"
	deliverycontext "crm/internal/delivery/context"
	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTrendDays = 30
	defaultTopN      = 10
)

type dashboardService struct {
	customerRepo      repository.CustomerRepository
	productRepo       repository.ProductRepository
	inventoryRepo     repository.InventoryRepository
	userRepo          repository.UserRepository
	agentRepo         repository.AgentRepository
	trendDays         int
	topN              int
	lowStockThreshold int64
	now               func() time.Time
	logger            *slog.Logger
}

// DashboardServiceParams holds dependencies for DashboardService, injected by Fx.
type DashboardServiceParams struct {
	fx.In

	CustomerRepo  repository.CustomerRepository
	ProductRepo   repository.ProductRepository
	InventoryRepo repository.InventoryRepository
	UserRepo      repository.UserRepository
	AgentRepo     repository.AgentRepository
	Config        *config.Config
	Logger        *slog.Logger
}

// NewDashboardService is the constructor for dashboardService.
func NewDashboardService(params DashboardServiceParams) usecase.DashboardUsecase {
	srv := &dashboardService{
		customerRepo:  params.CustomerRepo,
		productRepo:   params.ProductRepo,
		inventoryRepo: params.InventoryRepo,
		userRepo:      params.UserRepo,
		agentRepo:     params.AgentRepo,
		trendDays:     defaultTrendDays,
		topN:          defaultTopN,
		now:           time.Now,
		logger:        params.Logger,
	}

	if cfg := params.Config; cfg != nil {
		if cfg.Dashboard != nil {
			srv.trendDays = cfg.Dashboard.TrendDays
			srv.topN = cfg.Dashboard.TopN
		}
		if cfg.Inventory != nil {
			srv.lowStockThreshold = cfg.Inventory.LowStockThreshold
		}
	}

	return srv
}

func (srv *dashboardService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// customerScope returns the caller's customer filter. Roles without customer visibility get
// ok=false and see no customer figures.
func customerScope(actor entity.Principal) (repository.CustomerFilter, bool) {
	filter, err := visibilityFilter(actor)

	return filter, err == nil
}

// Overview runs the chart queries concurrently; the first failure cancels the rest.
func (srv *dashboardService) Overview(ctx context.Context, actor entity.Principal) (*entity.DashboardOverview, error) {
	out := &entity.DashboardOverview{
		CustomersByProgress:   []entity.CountBucket{},
		CustomersByImportance: []entity.CountBucket{},
		CustomersByNature:     []entity.CountBucket{},
	}

	g, gCtx := errgroup.WithContext(ctx)

	if filter, ok := customerScope(actor); ok {
		groups := []struct {
			field repository.CustomerGroupField
			dst   *[]entity.CountBucket
		}{
			{repository.GroupByProgress, &out.CustomersByProgress},
			{repository.GroupByImportance, &out.CustomersByImportance},
			{repository.GroupByNature, &out.CustomersByNature},
		}
		for _, group := range groups {
			g.Go(func() error {
				buckets, err := srv.customerRepo.CountGroupBy(gCtx, filter, group.field)
				if err != nil {
					return errors.Wrapf(err, "count customers by %s", group.field)
				}
				*group.dst = buckets

				return nil
			})
		}
	}

	g.Go(func() error {
		products, err := srv.productRepo.TopByStock(gCtx, srv.topN)
		if err != nil {
			return errors.Wrap(err, "top products by stock")
		}
		out.TopStockProducts = productStocks(products)

		return nil
	})

	g.Go(func() error {
		products, err := srv.productRepo.LowStock(gCtx, srv.lowStockThreshold, srv.topN)
		if err != nil {
			return errors.Wrap(err, "low stock products")
		}
		out.LowStockProducts = productStocks(products)

		return nil
	})

	g.Go(func() error {
		since := startOfDay(srv.now()).AddDate(0, 0, -(srv.trendDays - 1))
		flow, err := srv.inventoryRepo.DailyFlow(gCtx, since)
		if err != nil {
			return errors.Wrap(err, "daily stock flow")
		}
		out.StockTrend = flow

		return nil
	})

	if err := g.Wait(); err != nil {
		srv.log(ctx).Error("Failed to build dashboard overview", slog.Any("error", err))

		return nil, translateRepoError(err)
	}

	return out, nil
}

// Stats collects the headline counters concurrently. Pending approvals are only counted for administrators.
func (srv *dashboardService) Stats(ctx context.Context, actor entity.Principal) (*entity.DashboardStats, error) {
	out := &entity.DashboardStats{}
	g, gCtx := errgroup.WithContext(ctx)

	if filter, ok := customerScope(actor); ok {
		g.Go(func() error {
			n, err := srv.customerRepo.Count(gCtx, filter)
			if err != nil {
				return errors.Wrap(err, "count customers")
			}
			out.CustomerCount = n

			return nil
		})
	}

	g.Go(func() error {
		n, err := srv.customerRepo.Count(gCtx, repository.CustomerFilter{InPublicPool: true})
		if err != nil {
			return errors.Wrap(err, "count public pool")
		}
		out.PublicPoolCount = n

		return nil
	})

	g.Go(func() error {
		count, stock, err := srv.productRepo.Totals(gCtx)
		if err != nil {
			return errors.Wrap(err, "product totals")
		}
		out.ProductCount, out.TotalStock = count, stock

		return nil
	})

	g.Go(func() error {
		filter := repository.AgentFilter{}
		if actor.Role == entity.RoleFactorySales {
			filter.RelatedSalesID = uuidPtr(actor.ID)
		}
		n, err := srv.agentRepo.Count(gCtx, filter)
		if err != nil {
			return errors.Wrap(err, "count agents")
		}
		out.AgentCount = n

		return nil
	})

	g.Go(func() error {
		n, err := srv.inventoryRepo.CountSince(gCtx, startOfDay(srv.now()))
		if err != nil {
			return errors.Wrap(err, "count today's inventory operations")
		}
		out.TodayInventoryOpCount = n

		return nil
	})

	if actor.IsAdmin() {
		g.Go(func() error {
			n, err := srv.userRepo.CountByStatus(gCtx, entity.StatusPending)
			if err != nil {
				return errors.Wrap(err, "count pending users")
			}
			out.PendingUserCount = &n

			return nil
		})

		g.Go(func() error {
			n, err := srv.agentRepo.Count(gCtx, repository.AgentFilter{Status: entity.StatusPending})
			if err != nil {
				return errors.Wrap(err, "count pending agents")
			}
			out.PendingAgentCount = &n

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		srv.log(ctx).Error("Failed to build dashboard stats", slog.Any("error", err))

		return nil, translateRepoError(err)
	}

	return out, nil
}

func productStocks(products []*entity.Product) []entity.ProductStock {
	out := make([]entity.ProductStock, 0, len(products))
	for _, p := range products {
		out = append(out, entity.ProductStock{
			ID:          p.ID.String(),
			ModelName:   p.ModelName,
			PackageType: p.PackageType,
			Stock:       p.Stock,
		})
	}

	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
