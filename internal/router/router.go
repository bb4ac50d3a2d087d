package router

import (
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/audit"
	"github.com/SoyuzCL/pos-panchita/internal/authz"
	"github.com/SoyuzCL/pos-panchita/internal/config"
	"github.com/SoyuzCL/pos-panchita/internal/handler"
	"github.com/SoyuzCL/pos-panchita/internal/middleware"
	"github.com/SoyuzCL/pos-panchita/internal/repository"
	"github.com/SoyuzCL/pos-panchita/internal/service"
	"github.com/SoyuzCL/pos-panchita/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators owned by the composition root.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client // nil disables the job queue
	Audit audit.Recorder
	// LoginLimiter defaults to a fresh 20/min limiter when nil.
	LoginLimiter *middleware.Limiter
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.ErrorHandler())

	db := deps.DB
	var dispatcher *worker.Dispatcher
	if deps.Redis != nil {
		dispatcher = worker.NewDispatcher(deps.Redis)
	}
	loginLimiter := deps.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = middleware.NewLoginLimiter()
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	employeeRepo := repository.NewEmployeeRepository(db)
	sessionRepo := repository.NewCashSessionRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	logRepo := repository.NewActionLogRepository(db)
	purchaseRepo := repository.NewPurchaseOrderRepository(db)
	customerRepo := repository.NewCustomerOrderRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	gate := service.NewAdminGate(employeeRepo)
	authSvc := service.NewAuthService(employeeRepo, cfg)
	sessionSvc := service.NewCashSessionService(sessionRepo, gate, deps.Audit)
	receiptSvc := service.NewReceiptService(saleRepo, dispatcher, cfg.PrinterEnabled)
	saleSvc := service.NewSaleService(saleRepo, productRepo, logRepo, sessionSvc, gate, receiptSvc, deps.Audit,
		service.SaleOptions{TrustClientTotals: cfg.TrustClientTotals})
	employeeSvc := service.NewEmployeeService(employeeRepo, deps.Audit, cfg.BcryptCost)
	supplierSvc := service.NewSupplierService(supplierRepo, deps.Audit)
	productSvc := service.NewProductService(productRepo, deps.Audit, service.ProductOptions{
		LowStockThreshold: cfg.LowStockThreshold,
		ExpiryWindowDays:  cfg.ExpiryWindowDays,
	})
	purchaseSvc := service.NewPurchaseOrderService(purchaseRepo, productRepo, deps.Audit)
	customerSvc := service.NewCustomerOrderService(customerRepo, deps.Audit)
	reportSvc := service.NewReportService(reportRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	sessionsH := handler.NewCashSessionHandler(sessionSvc)
	salesH := handler.NewSalesHandler(saleSvc, receiptSvc)
	employeesH := handler.NewEmployeesHandler(employeeSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	productsH := handler.NewProductsHandler(productSvc)
	purchaseH := handler.NewPurchaseOrdersHandler(purchaseSvc)
	customerH := handler.NewCustomerOrdersHandler(customerSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, deps.Redis))

	api := r.Group("/api")
	api.POST("/login", loginLimiter.Middleware(), authH.Login)

	// Protected routes; each declares the capability it needs
	can := middleware.RequireCapability
	p := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	{
		register := p.Group("", can(authz.RegisterOperate))
		{
			register.GET("/cash-sessions/active", sessionsH.GetActive)
			register.POST("/cash-sessions/start", sessionsH.Start)
			register.POST("/cash-sessions/close", sessionsH.Close)
			register.GET("/cash-sessions/history", sessionsH.History)
			register.GET("/cash-sessions/:id/movements", sessionsH.Movements)
			register.POST("/cash-movements", sessionsH.Movement)
			register.POST("/sales", salesH.Create)
			register.POST("/print-receipt", salesH.PrintReceipt)
		}

		p.GET("/sales", can(authz.ActivityRead), salesH.Activity)

		employees := p.Group("/employees", can(authz.EmployeesManage))
		{
			employees.GET("", employeesH.List)
			employees.POST("", employeesH.Create)
			employees.PUT("/:id", employeesH.Update)
		}

		p.GET("/suppliers", can(authz.SuppliersRead), suppliersH.List)
		suppliers := p.Group("/suppliers", can(authz.SuppliersWrite))
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		p.GET("/products", can(authz.ProductsRead), productsH.List)
		p.GET("/products/low-stock", can(authz.ProductsRead), productsH.LowStock)
		p.GET("/products/expiring-soon", can(authz.ProductsRead), productsH.ExpiringSoon)
		products := p.Group("/products", can(authz.ProductsWrite))
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.PATCH("/:id/toggle-status", productsH.ToggleStatus)
		}

		orders := p.Group("", can(authz.OrdersManage))
		{
			orders.GET("/purchase-orders", purchaseH.List)
			orders.POST("/purchase-orders", purchaseH.Create)
			orders.PUT("/purchase-orders/:id/receive", purchaseH.Receive)
			orders.GET("/customer-orders", customerH.List)
			orders.POST("/customer-orders", customerH.Create)
			orders.PUT("/customer-orders/:id/status", customerH.UpdateStatus)
		}

		p.GET("/reports/summary", can(authz.ReportsRead), reportsH.Summary)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		c.AllowOrigins = origins
	} else {
		c.AllowAllOrigins = true
	}
	return c
}
