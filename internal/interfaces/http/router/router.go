package router

import (
	"github.com/gin-gonic/gin"
	"github.com/insurance/backend/internal/infrastructure/config"
	"github.com/insurance/backend/internal/infrastructure/logger"
	"github.com/insurance/backend/internal/interfaces/http/handler"
	"github.com/insurance/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers wired into the router
type Handlers struct {
	System      *handler.SystemHandler
	Account     *handler.AccountHandler
	Invoice     *handler.InvoiceHandler
	Payment     *handler.PaymentHandler
	Contract    *handler.ContractHandler
	Endorsement *handler.EndorsementHandler
	Member      *handler.MemberHandler
	Product     *handler.ProductHandler
}

// New builds the gin engine with middleware and all routes registered
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, "/health", "/ready"))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg)))

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	v1 := engine.Group("/api/v1")

	accounts := v1.Group("/accounts")
	{
		accounts.POST("", h.Account.Open)
		accounts.GET("", h.Account.List)
		accounts.GET("/:id", h.Account.Get)
		accounts.POST("/:id/deactivate", h.Account.Deactivate)
		accounts.POST("/:id/installments", h.Account.RecordInstallment)
		accounts.GET("/:id/installments", h.Account.ListInstallments)
		accounts.GET("/:id/invoices", h.Invoice.ListByAccount)
		accounts.GET("/:id/payments", h.Payment.ListByAccount)
	}

	invoices := v1.Group("/invoices")
	{
		invoices.POST("", h.Invoice.Create)
		invoices.POST("/sweep-overdue", h.Invoice.SweepOverdue)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/issue", h.Invoice.Issue)
		invoices.POST("/:id/cancel", h.Invoice.Cancel)
	}

	payments := v1.Group("/payments")
	{
		payments.POST("", h.Payment.Record)
		payments.GET("/:id", h.Payment.Get)
		payments.POST("/:id/complete", h.Payment.Complete)
		payments.POST("/:id/cancel", h.Payment.Cancel)
	}

	masters := v1.Group("/master-contracts")
	{
		masters.POST("", h.Contract.CreateMaster)
		masters.GET("", h.Contract.ListMasters)
		masters.GET("/:id", h.Contract.GetMaster)
		masters.POST("/:id/activate", h.Contract.ActivateMaster)
		masters.POST("/:id/suspend", h.Contract.SuspendMaster)
		masters.POST("/:id/terminate", h.Contract.TerminateMaster)
		masters.GET("/:id/contracts", h.Contract.ListByMaster)
	}

	contracts := v1.Group("/contracts")
	{
		contracts.POST("", h.Contract.Create)
		contracts.GET("/:id", h.Contract.Get)
		contracts.POST("/:id/activate", h.Contract.Activate)
		contracts.POST("/:id/suspend", h.Contract.Suspend)
		contracts.POST("/:id/terminate", h.Contract.Terminate)
		contracts.GET("/:id/endorsements", h.Endorsement.ListByContract)
		contracts.GET("/:id/members", h.Member.ListByContract)
	}

	endorsements := v1.Group("/endorsements")
	{
		endorsements.POST("", h.Endorsement.Create)
		endorsements.GET("/:id", h.Endorsement.Get)
		endorsements.POST("/:id/approve", h.Endorsement.Approve)
		endorsements.POST("/:id/reject", h.Endorsement.Reject)
		endorsements.POST("/:id/cancel", h.Endorsement.Cancel)
		endorsements.POST("/:id/process", h.Endorsement.Process)
	}

	members := v1.Group("/members")
	{
		members.POST("", h.Member.Enroll)
		members.GET("/:id", h.Member.Get)
		members.POST("/:id/activate", h.Member.Activate)
		members.POST("/:id/suspend", h.Member.Suspend)
		members.POST("/:id/terminate", h.Member.Terminate)
		members.PUT("/:id/contact-info", h.Member.UpdateContactInfo)
	}

	products := v1.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("/:id/activate", h.Product.Activate)
		products.POST("/:id/deactivate", h.Product.Deactivate)
		products.POST("/:id/discontinue", h.Product.Discontinue)
	}

	return engine
}

// corsConfig overlays configured CORS values on the restrictive defaults
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}
