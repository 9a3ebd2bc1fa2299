package server

import (
	"context"
	"net/http"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/dashboard"
	"gymdesk/internal/expense"
	"gymdesk/internal/member"
	"gymdesk/internal/notification"
	"gymdesk/internal/payment"
	"gymdesk/internal/plan"
	"gymdesk/internal/reference"
	"gymdesk/internal/user"

	"github.com/gin-gonic/gin"
)

const ShutdownTimeout = 30 * time.Second

type Server struct {
	router *gin.Engine
	app    *App
	http   *http.Server
}

func New(app *App) *Server {
	cfg := app.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(auth.Authenticate(app.Tokens, app.Users))

	reg := crud.NewRegistry(app.DB, app.Policy, cfg.LoginPath)
	onChange := app.invalidateDashboard

	userHandler := user.NewHandler(app.Users)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	me := router.Group("/me", auth.RequireLogin(cfg.LoginPath))
	{
		me.GET("", userHandler.GetMe)
		me.PUT("", userHandler.UpdateMe)
		me.POST("/password", userHandler.ChangeMyPassword)
	}

	accounts := router.Group("/accounts")
	{
		crud.Mount(reg, accounts, user.NewResource(app.userRepo))

		viewUser := crud.Gate(reg, auth.Cap(user.Module, auth.ActionView, user.Entity))
		changeUser := crud.Gate(reg, auth.Cap(user.Module, auth.ActionChange, user.Entity))
		accounts.GET("/users/:pk/permissions", viewUser, userHandler.Permissions)
		accounts.POST("/users/:pk/permissions", changeUser, userHandler.Grant)
		accounts.DELETE("/users/:pk/permissions", changeUser, userHandler.Revoke)
		accounts.POST("/users/:pk/password", changeUser, userHandler.ResetPassword)
	}

	finance := router.Group("/finance")
	{
		planHandler := plan.NewHandler(app.planRepo)
		finance.GET("/plans/active", crud.Gate(reg, auth.Cap(plan.Module, auth.ActionView, plan.Entity)), planHandler.Active)
		crud.Mount(reg, finance, plan.NewResource(app.planRepo))

		crud.Mount(reg, finance, member.NewResource(app.memberRepo, app.Members, onChange,
			payment.MemberPaymentsRelation(app.paymentRepo),
			user.AccountRelation(app.userRepo),
		))
		crud.Mount(reg, finance, payment.NewResource(app.Payments, onChange))
		crud.Mount(reg, finance, expense.NewResource(app.expenseRepo, time.Now, onChange))

		paymentHandler := payment.NewHandler(reg, app.Payments, onChange)
		finance.POST("/members/:pk/renew",
			crud.Gate(reg, auth.Cap(payment.Module, auth.ActionAdd, payment.Entity)),
			paymentHandler.Renew,
		)
	}

	management := router.Group("/management")
	{
		crud.Mount(reg, management, reference.NewCountryResource(app.referenceRepo))
		crud.Mount(reg, management, reference.NewStateResource(app.referenceRepo))
	}

	whisper := router.Group("/whisper")
	{
		crud.Mount(reg, whisper, notification.NewResource())

		notificationHandler := notification.NewHandler(app.Notifications)
		whisper.POST("/notifications/:pk/retry",
			crud.Gate(reg, auth.Cap(notification.Module, auth.ActionChange, notification.Entity)),
			notificationHandler.Retry,
		)
	}

	dashboardHandler := dashboard.NewHandler(app.Dashboard)
	router.GET("/dashboard", auth.RequireLogin(cfg.LoginPath), auth.RequireStaff(), dashboardHandler.Stats)

	router.GET("/health", Health(app.DB))
	router.GET("/metrics", Metrics())
	SetupSwagger(router, cfg)

	return &Server{router: router, app: app}
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
