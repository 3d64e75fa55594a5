package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"lendflow/internal/config"
	"lendflow/internal/database"
	"lendflow/internal/database/migration"
	"lendflow/internal/repository"
	"lendflow/internal/repository/memory"
	"lendflow/internal/repository/postgres"
	"lendflow/internal/seed"
	"lendflow/internal/storage"
)

// dataSource is the storage backend the services run against.
type dataSource struct {
	db      *sql.DB // nil for the memory backend
	repos   repository.Set
	objects storage.Storage
	// links is set for the memory backend, whose presigned links the API serves itself.
	links *storage.Memory
}

func (d *dataSource) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func openDataSource(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (*dataSource, error) {
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		return openPostgres(ctx, cfg, log)
	case config.DataSourceMemory:
		return openMemory(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q", cfg.DataSource)
	}
}

func openPostgres(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (*dataSource, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	objects, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	return &dataSource{db: db, repos: postgres.NewSet(db), objects: objects}, nil
}

// openMemory builds a throwaway marketplace preloaded from SEED_FILE or the
// bundled demo fixture.
func openMemory(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (*dataSource, error) {
	repos := memory.New().Set()

	fixture := seed.Default()
	if cfg.SeedFile != "" {
		f, err := seed.ParseFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		fixture = f
	}
	res, err := seed.NewLoader(repos, cfg.Auth.BcryptCost, nil).Load(ctx, fixture)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"users":        res.Users,
		"lenders":      res.Lenders,
		"rules":        res.Rules,
		"applications": res.Applications,
	}).Info("memory data source seeded")

	objects := storage.NewMemory("http://"+cfg.AppHost, []byte(cfg.Auth.JWTSecret))
	return &dataSource{repos: repos, objects: objects, links: objects}, nil
}
