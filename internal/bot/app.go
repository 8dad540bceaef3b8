package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/emotipal/psychobot/core/bootstrap"
	"github.com/emotipal/psychobot/core/logger"
	coretelegram "github.com/emotipal/psychobot/core/telegram"
	"github.com/emotipal/psychobot/core/telegram/middleware"
	"github.com/emotipal/psychobot/core/telegram/router"
	"github.com/emotipal/psychobot/internal/analysis"
	"github.com/emotipal/psychobot/internal/exam"
	"github.com/emotipal/psychobot/internal/storage"
)

// App glues configuration, storage, the exam engine, and the analysis
// service into a runnable Telegram bot. All wiring is explicit; no
// component reaches for ambient configuration.
type App struct {
	cfg *Config
	db  *sqlx.DB

	users    *storage.UserRepo
	catalog  *storage.CatalogRepo
	answers  *storage.AnswerRepo
	engine   *exam.Engine
	analyzer *analysis.Service
}

// NewApp bootstraps infrastructure (logger, database, migrations, seed
// data) and assembles the service graph.
func NewApp(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
		Seeders: []bootstrap.Seeder{
			bootstrap.SeederFunc(storage.SeedDemoCatalog),
		},
	})
	if err != nil {
		return nil, err
	}

	users := storage.NewUserRepo(res.DB)
	catalog := storage.NewCatalogRepo(res.DB)
	answers := storage.NewAnswerRepo(res.DB)

	var analyzer *analysis.Service
	if cfg.AI.APIKey != "" {
		analyzer, err = analysis.New(cfg.AI)
		if err != nil {
			_ = res.DB.Close()
			return nil, err
		}
	} else {
		logger.Warn(context.Background(), "app", "analysis.disabled",
			slog.String("status", "skip"),
		)
	}

	return &App{
		cfg:      cfg,
		db:       res.DB,
		users:    users,
		catalog:  catalog,
		answers:  answers,
		engine:   exam.NewEngine(catalog, answers, users),
		analyzer: analyzer,
	}, nil
}

// TelegramRunOptions builds the registry, routes, and middleware chain.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	h := newHandlers(a.users, a.catalog, a.answers, a.engine, a.analyzer)
	if err := h.register(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       a.cfg.Core.Telegram.AdminID,
		OnAdminReject: h.adminRejected,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{
		UnknownText: h.UnknownText(),
	})...)

	mws := coretelegram.DefaultMiddlewares(&a.cfg.Core, middleware.AccessOptions{
		Blocklist: blocklist{users: a.users},
		OnBlocked: h.blocked,
	}, nil)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: mws,
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

// blocklist adapts the user repository to the access middleware. A
// storage failure fails open: better to serve a blocked user once than
// to drop everyone while the database blips.
type blocklist struct {
	users *storage.UserRepo
}

func (b blocklist) IsBlocked(userID int64) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	blocked, err := b.users.IsBlocked(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "service.users", "blocklist.lookup",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return blocked
}
