// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"crm/internal/delivery/http/middleware"
	"crm/internal/delivery/http/router/handler"
	"crm/internal/domain/entity"
	"crm/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	AgentHandler      *handler.AgentHandler
	CustomerHandler   *handler.CustomerHandler
	PublicPoolHandler *handler.PublicPoolHandler
	ProductHandler    *handler.ProductHandler
	InventoryHandler  *handler.InventoryHandler
	HistoryHandler    *handler.HistoryHandler
	FollowUpHandler   *handler.FollowUpHandler
	DashboardHandler  *handler.DashboardHandler
	AuthMiddleware    *middleware.AuthMiddleware
	AuthRateLimiter   echo.MiddlewareFunc `name:"authRateLimiter"`
	Registry          *prometheus.Registry
}

// router holds all the handlers that need to be registered.
type router struct {
	RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{RouterParams: params}
}

var (
	admin            = entity.RoleSuperAdmin
	sales            = entity.RoleFactorySales
	inventoryManager = entity.RoleInventoryManager
	agent            = entity.RoleAgent
)

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(r.Registry)))

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.AuthHandler.RegisterUser, r.AuthRateLimiter)
		authGroup.POST("/register/agent", r.AuthHandler.RegisterAgent, r.AuthRateLimiter)
		authGroup.POST("/login", r.AuthHandler.Login, r.AuthRateLimiter)
		authGroup.GET("/me", r.AuthHandler.Me, r.AuthMiddleware.Authenticate)
		authGroup.POST("/change-password", r.AuthHandler.ChangePassword, r.AuthMiddleware.Authenticate)
	}

	// Everything below requires a valid access token
	secured := api.Group("", r.AuthMiddleware.Authenticate)

	requireAdmin := r.AuthMiddleware.RequireRole(admin)
	customerRoles := r.AuthMiddleware.RequireRole(admin, sales, agent)
	stockRoles := r.AuthMiddleware.RequireRole(admin, inventoryManager)

	userGroup := secured.Group("/users", requireAdmin)
	{
		userGroup.GET("", r.UserHandler.List)
		userGroup.POST("", r.UserHandler.Create)
		userGroup.GET("/:id", r.UserHandler.Get)
		userGroup.PUT("/:id", r.UserHandler.Update)
		userGroup.DELETE("/:id", r.UserHandler.Delete)
		userGroup.POST("/:id/approve", r.UserHandler.Approve)
		userGroup.POST("/:id/reject", r.UserHandler.Reject)
	}

	agentGroup := secured.Group("/agents", r.AuthMiddleware.RequireRole(admin, sales))
	{
		agentGroup.GET("", r.AgentHandler.List)
		agentGroup.POST("", r.AgentHandler.Create)
		agentGroup.GET("/:id", r.AgentHandler.Get)
		agentGroup.PUT("/:id", r.AgentHandler.Update)
		agentGroup.DELETE("/:id", r.AgentHandler.Delete, requireAdmin)
		agentGroup.POST("/:id/approve", r.AgentHandler.Approve, requireAdmin)
		agentGroup.POST("/:id/reject", r.AgentHandler.Reject, requireAdmin)
	}

	customerGroup := secured.Group("/customers", customerRoles)
	{
		customerGroup.GET("", r.CustomerHandler.List)
		customerGroup.POST("", r.CustomerHandler.Create)
		customerGroup.GET("/export", r.CustomerHandler.Export)
		customerGroup.GET("/check-duplicate", r.CustomerHandler.CheckDuplicate)
		customerGroup.POST("/bulk-import", r.CustomerHandler.BulkImport)
		customerGroup.GET("/:id", r.CustomerHandler.Get)
		customerGroup.PUT("/:id", r.CustomerHandler.Update)
		customerGroup.DELETE("/:id", r.CustomerHandler.Delete)
		customerGroup.POST("/:id/move-to-public", r.CustomerHandler.MoveToPublicPool)
	}
	secured.POST("/change_customers", r.CustomerHandler.BulkTransfer, requireAdmin)

	poolGroup := secured.Group("/public-pool", customerRoles)
	{
		poolGroup.GET("", r.PublicPoolHandler.List)
		poolGroup.POST("/:id/assign", r.PublicPoolHandler.Assign, requireAdmin)
		poolGroup.POST("/:id/claim", r.PublicPoolHandler.Claim, r.AuthMiddleware.RequireRole(sales, agent))
	}

	productGroup := secured.Group("/products")
	{
		productGroup.GET("", r.ProductHandler.List)
		productGroup.GET("/export", r.ProductHandler.Export)
		productGroup.GET("/:id", r.ProductHandler.Get)
		productGroup.POST("", r.ProductHandler.Create, stockRoles)
		productGroup.PUT("/:id", r.ProductHandler.Update, stockRoles)
		productGroup.DELETE("/:id", r.ProductHandler.Delete, requireAdmin)
		productGroup.POST("/stock-in", r.ProductHandler.StockIn, stockRoles)
		productGroup.POST("/stock-out", r.ProductHandler.StockOut, stockRoles)
		productGroup.POST("/bulk-stock", r.ProductHandler.BulkStock, stockRoles)
	}

	recordGroup := secured.Group("/inventory/records", stockRoles)
	{
		recordGroup.GET("", r.InventoryHandler.ListRecords)
		recordGroup.GET("/export", r.InventoryHandler.ExportRecords)
	}

	secured.GET("/customerAssignments", r.HistoryHandler.ListAssignments, customerRoles)
	secured.GET("/customer-progress", r.HistoryHandler.ListProgress, customerRoles)

	followUpGroup := secured.Group("/followUpRecords", customerRoles)
	{
		followUpGroup.GET("", r.FollowUpHandler.List)
		followUpGroup.POST("", r.FollowUpHandler.Create)
		followUpGroup.PUT("/:id", r.FollowUpHandler.Update)
		followUpGroup.DELETE("/:id", r.FollowUpHandler.Delete)
	}

	secured.GET("/dashboard", r.DashboardHandler.Overview)
	secured.GET("/dashboard-stats", r.DashboardHandler.Stats)
}
