// Package app assembles the recruiter bot: configuration, the session
// store, the service gateways, the conversation engine, and the
// Telegram routing tables.
package app

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/bootstrap"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	tg "github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/commands"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/router"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/conversation"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/gateway"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"

	tele "gopkg.in/telebot.v4"
)

// App holds the wired bot ready to produce Telegram run options.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	store    session.Store
	engine   *conversation.Engine
	registry *tg.Registry
}

// New bootstraps the application. The database connects only when the
// postgres session backend is selected; memory and redis deployments
// run without one.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	var db *sqlx.DB
	if cfg.Session.Backend == "postgres" {
		res, err := bootstrap.Run(bootstrap.Options{
			Config:   &cfg.Core,
			Database: cfg.Database,
		})
		if err != nil {
			return nil, err
		}
		db = res.DB
	} else {
		if err := logger.InitLogger(&cfg.Core); err != nil {
			return nil, fmt.Errorf("app: logger init failed: %w", err)
		}
	}

	ttl := time.Duration(cfg.Session.IdleTimeoutMinutes) * time.Minute
	store, err := buildStore(cfg, db, ttl)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	engine := conversation.NewEngine(
		store,
		gateway.NewCandidateGateway(cfg.Services.CandidateURL),
		gateway.NewEmployerGateway(cfg.Services.EmployerURL),
		gateway.NewSearchGateway(cfg.Services.SearchURL),
		gateway.NewFileGateway(cfg.Services.FileURL),
	)

	app := &App{
		cfg:      cfg,
		db:       db,
		store:    store,
		engine:   engine,
		registry: tg.NewRegistry(),
	}
	app.registerHandlers()
	return app, nil
}

func buildStore(cfg *Config, db *sqlx.DB, ttl time.Duration) (session.Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		store, err := session.NewRedisStore(cfg.Redis, ttl)
		if err != nil {
			return nil, fmt.Errorf("app: redis session store: %w", err)
		}
		return store, nil
	case "postgres":
		return session.NewPostgresStore(db, ttl), nil
	default:
		return session.NewMemoryStore(ttl), nil
	}
}

func (a *App) registerHandlers() {
	a.registry.RegisterCommand("/start", commands.Command{
		Handler:     a.engine.Start,
		Description: "Create a profile or pick your role",
	})
	a.registry.RegisterCommand("/profile", commands.Command{
		Handler:     a.engine.Profile,
		Description: "View and edit your profile",
	})
	a.registry.RegisterCommand("/search", commands.Command{
		Handler:     a.engine.Search,
		Description: "Search for candidates",
	})
	a.registry.RegisterCommand("/cancel", commands.Command{
		Handler:     a.engine.Cancel,
		Description: "Cancel the current action",
	})
	a.registry.RegisterCommand("/skip", commands.Command{
		Handler:     a.engine.Skip,
		Hidden:      true,
		Description: "Skip an optional step",
	})

	a.engine.Bind(a.registry)
}

// TelegramRunOptions builds the routing tables for the core runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	unknown := func(c tele.Context) error {
		return c.Send("I'm not sure what you mean. Try /start, /profile or /search.")
	}

	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.engine, a.registry, router.TextOptions{
		UnknownText:     unknown,
		UnknownDocument: unknown,
		UnknownPhoto:    unknown,
	})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
	}, nil
}

// Close releases infrastructure held by the app.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
