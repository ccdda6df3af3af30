// Package main is the entry point for the jpashop API server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"jpashop/src/app/server"
	"jpashop/src/core/ports"
	"jpashop/src/core/usecase"
	"jpashop/src/infra/config"
	"jpashop/src/infra/db"
	"jpashop/src/infra/logger"
	"jpashop/src/infra/orm"
	"jpashop/src/infra/repo"
	"jpashop/src/infra/repo/memory"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

// stores groups the adapters selected by APP_QUERY_ENGINE.
type stores struct {
	health  ports.Repository
	members ports.MemberRepository
	items   ports.ItemRepository
	orders  ports.OrderRepository
	query   ports.OrderStore
	close   func()
}

func run() error {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
		"query_engine", cfg.Query.Engine,
		"default_policy", cfg.Query.DefaultPolicy,
	)

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	loader := usecase.NewOrderLoader(st.query, logger.WithComponent(log, "order_loader"), usecase.LoaderConfig{
		DefaultPolicy:  usecase.LoadPolicy(cfg.Query.DefaultPolicy),
		BatchFetchSize: cfg.Query.BatchFetchSize,
		MaxResults:     cfg.Query.MaxResults,
	})
	svc := server.Services{
		Health:  usecase.NewHealthService(st.health, log),
		Members: usecase.NewMemberService(st.members, log),
		Items:   usecase.NewItemService(st.items, log),
	}
	svc.Orders = usecase.NewOrderService(st.orders, st.members, st.items, loader, log)

	if cfg.Bootstrap.Seed {
		seeder := usecase.NewSeedService(svc.Members, svc.Items, svc.Orders, logger.WithComponent(log, "seed"))
		if err := seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	// Create and run HTTP server
	srv := server.New(cfg, log, svc)

	// Run blocks until shutdown signal is received
	return srv.Run()
}

// openStores connects the configured engine. Writes always go through pgx
// when a database is used; only the order read side switches to GORM.
func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	if !cfg.Query.UsesDatabase() {
		log.Warn("running on the in-memory store; data is lost on exit")
		store := memory.New()
		return &stores{
			health:  store,
			members: memory.NewMemberRepository(store),
			items:   memory.NewItemRepository(store),
			orders:  memory.NewOrderRepository(store),
			query:   memory.NewOrderQueryRepository(store),
			close:   func() {},
		}, nil
	}

	pg, err := db.New(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if cfg.Bootstrap.Migrate {
		if err := db.Migrate(ctx, pg.SQLDB(), log); err != nil {
			pg.Close()
			return nil, err
		}
	}

	st := &stores{
		health:  pg,
		members: repo.NewMemberRepository(pg, log),
		items:   repo.NewItemRepository(pg, log),
		orders:  repo.NewOrderRepository(pg, log),
		query:   repo.NewOrderQueryRepository(pg, log),
		close:   pg.Close,
	}
	if cfg.Query.Engine == config.EngineGorm {
		gdb, err := orm.Open(pg.SQLDB(), log, cfg.Database.LogQueries)
		if err != nil {
			pg.Close()
			return nil, err
		}
		st.query = repo.NewGormOrderQueryRepository(gdb, log)
	}
	return st, nil
}
