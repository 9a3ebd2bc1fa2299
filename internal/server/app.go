package server

import (
	"context"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/cache"
	"gymdesk/internal/config"
	"gymdesk/internal/dashboard"
	"gymdesk/internal/expense"
	"gymdesk/internal/member"
	"gymdesk/internal/notification"
	"gymdesk/internal/payment"
	"gymdesk/internal/plan"
	"gymdesk/internal/reference"
	"gymdesk/internal/user"

	"github.com/jmoiron/sqlx"
)

// App holds the services shared by the HTTP server and the command line.
type App struct {
	DB     *sqlx.DB
	Config *config.Config
	Policy *auth.Policy
	Tokens *auth.Tokens

	Users         user.Service
	Members       member.Service
	Payments      payment.Service
	Notifications *notification.Dispatcher
	Dashboard     dashboard.Service

	userRepo      user.Repository
	memberRepo    member.Repository
	planRepo      plan.Repository
	paymentRepo   payment.Repository
	expenseRepo   expense.Repository
	referenceRepo reference.Repository
}

// NewApp wires repositories and services. c may be cache.Noop{} when redis is
// not configured.
func NewApp(db *sqlx.DB, c cache.Cache, cfg *config.Config) (*App, error) {
	transport, err := notification.NewTransport(cfg)
	if err != nil {
		return nil, err
	}

	policy := auth.NewPolicy()
	RegisterCapabilities(policy)
	tokens := auth.NewTokens(cfg.JWTSecret)

	a := &App{
		DB:            db,
		Config:        cfg,
		Policy:        policy,
		Tokens:        tokens,
		userRepo:      user.NewRepository(db),
		memberRepo:    member.NewRepository(db),
		planRepo:      plan.NewRepository(db),
		paymentRepo:   payment.NewRepository(db),
		expenseRepo:   expense.NewRepository(db),
		referenceRepo: reference.NewRepository(db),
	}

	a.Users = user.NewService(a.userRepo, tokens, policy)
	a.Members = member.NewService(a.memberRepo, time.Now)
	a.Notifications = notification.NewDispatcher(notification.NewRepository(db), transport, cfg.EmailFrom, cfg.EmailFromName)
	a.Payments = payment.NewService(a.paymentRepo, a.planRepo, a.memberRepo, a.Notifications, db, time.Now)
	a.Dashboard = dashboard.NewService(dashboard.NewRepository(db), c, cfg.DashboardCacheTTL, time.Now)

	return a, nil
}

// RegisterCapabilities declares every guarded entity up front so grants made
// before the router exists are checked against the same table.
func RegisterCapabilities(p *auth.Policy) {
	p.Register(user.Module, user.Entity)
	p.Register(plan.Module, plan.Entity)
	p.Register(member.Module, member.Entity)
	p.Register(payment.Module, payment.Entity)
	p.Register(expense.Module, expense.Entity)
	p.Register(reference.Module, reference.EntityCountry)
	p.Register(reference.Module, reference.EntityState)
	p.Register(notification.Module, notification.Entity)
}

func (a *App) invalidateDashboard(ctx context.Context) {
	a.Dashboard.Invalidate(ctx)
}
