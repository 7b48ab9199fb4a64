package server

import (
	"context"
	"net/http"

	"gymdesk/internal/account"
	"gymdesk/internal/auth"
	"gymdesk/internal/billing"
	"gymdesk/internal/config"
	"gymdesk/internal/gym"
	"gymdesk/internal/membership"
	"gymdesk/internal/notify"
	"gymdesk/internal/payroll"
	"gymdesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	httpd  *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	accountRepo := account.NewRepository(db)
	billingRepo := billing.NewRepository(db, accountRepo)
	membershipRepo := membership.NewRepository(db, billingRepo)
	payrollRepo := payroll.NewRepository(db, accountRepo)

	gymService := gym.NewService(gym.NewRepository(db))
	accountService := account.NewService(accountRepo)
	billingService := billing.NewService(billingRepo)
	membershipService := membership.NewService(membershipRepo)
	payrollService := payroll.NewService(payrollRepo, membershipRepo)
	userService := user.NewService(user.NewRepository(db), cfg.JWTSecret, cfg.JWTRefreshSecret)

	userHandler := user.NewHandler(userService)
	gymHandler := gym.NewHandler(gymService)
	accountHandler := account.NewHandler(accountService)
	billingHandler := billing.NewHandler(billingService, gymService, notifier)
	membershipHandler := membership.NewHandler(membershipService, gymService)
	payrollHandler := payroll.NewHandler(payrollService, gymService, notifier)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	staff := router.Group("/")
	staff.Use(authMiddleware, auth.RequireRole("staff", "admin"))
	{
		staff.GET("/me", userHandler.GetMe)

		staff.GET("/gyms", gymHandler.ListGyms)
		staff.GET("/gyms/:gymID", gymHandler.GetGym)

		staff.GET("/gyms/:gymID/accounts", accountHandler.ListAccounts)
		staff.GET("/accounts/:accountID", accountHandler.GetAccount)
		staff.GET("/accounts/:accountID/ledger", accountHandler.Ledger)
		staff.GET("/accounts/:accountID/balance", accountHandler.VerifyBalance)
		staff.POST("/accounts/:accountID/entries", accountHandler.PostEntry)
		staff.POST("/entries/:entryID/reverse", accountHandler.ReverseEntry)

		staff.GET("/gyms/:gymID/invoices", billingHandler.ListInvoices)
		staff.POST("/gyms/:gymID/invoices", billingHandler.CreateInvoice)
		staff.GET("/invoices/:invoiceID", billingHandler.GetInvoice)
		staff.POST("/gyms/:gymID/invoices/:invoiceID/payments", billingHandler.RecordPayment)
		staff.POST("/gyms/:gymID/invoices/:invoiceID/cancel", billingHandler.CancelInvoice)
		staff.DELETE("/gyms/:gymID/payments/:paymentID", billingHandler.DeletePayment)

		staff.GET("/gyms/:gymID/packages", membershipHandler.ListPackages)
		staff.GET("/packages/:packageID", membershipHandler.GetPackage)
		staff.POST("/gyms/:gymID/subscriptions", membershipHandler.CreateSubscription)
		staff.POST("/gyms/:gymID/subscriptions/:subscriptionID/renew", membershipHandler.RenewSubscription)
		staff.POST("/gyms/:gymID/subscriptions/:subscriptionID/cancel", membershipHandler.CancelSubscription)
		staff.GET("/subscriptions/:subscriptionID", membershipHandler.GetSubscription)
		staff.GET("/gyms/:gymID/members/:memberID/subscriptions", membershipHandler.ListMemberSubscriptions)
		staff.GET("/gyms/:gymID/members/:memberID/subscriptions/active", membershipHandler.GetActiveSubscription)

		staff.GET("/gyms/:gymID/salary-slips", payrollHandler.ListSlips)
		staff.GET("/salary-slips/:slipID", payrollHandler.GetSlip)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.POST("/gyms", gymHandler.CreateGym)
		admin.PUT("/gyms/:gymID/settings", gymHandler.UpdateSettings)

		admin.POST("/gyms/:gymID/accounts", accountHandler.CreateAccount)
		admin.PATCH("/accounts/:accountID/active", accountHandler.SetAccountActive)
		admin.PUT("/gyms/:gymID/accounts/:accountID/default", accountHandler.SetDefaultAccount)

		admin.POST("/gyms/:gymID/packages", membershipHandler.CreatePackage)
		admin.PUT("/packages/:packageID", membershipHandler.UpdatePackage)
		admin.PATCH("/packages/:packageID/active", membershipHandler.SetPackageActive)

		admin.POST("/gyms/:gymID/salary-configs", payrollHandler.SetConfig)
		admin.GET("/gyms/:gymID/trainers/:trainerID/salary-configs", payrollHandler.ListConfigs)
		admin.POST("/gyms/:gymID/salary-slips", payrollHandler.GenerateSlip)
		admin.POST("/gyms/:gymID/salary-slips/:slipID/pay", payrollHandler.MarkSlipPaid)
		admin.POST("/gyms/:gymID/salary-slips/:slipID/unpay", payrollHandler.MarkSlipUnpaid)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(notifier))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.httpd = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpd.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpd == nil {
		return nil
	}
	return s.httpd.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
