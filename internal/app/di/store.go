// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	authadapters "gadget_backend/internal/feature/auth/adapters"
	authusecase "gadget_backend/internal/feature/auth/usecase"
	catalogadapters "gadget_backend/internal/feature/catalog/adapters"
	catalogusecase "gadget_backend/internal/feature/catalog/usecase"
	"gadget_backend/internal/platform/config"
	"gadget_backend/internal/platform/db"
	platformmongo "gadget_backend/internal/platform/mongo"
)

// Stores holds the repositories selected by STORE_DRIVER.
type Stores struct {
	Users   authusecase.UserRepository
	Catalog catalogusecase.CatalogRepository
	// Close releases the underlying connection.
	Close func(ctx context.Context) error
}

// Models lists every GORM model the SQL drivers migrate.
func Models() []any {
	return []any{&authadapters.UserModel{}, &catalogadapters.DocumentModel{}}
}

// NewStores opens the configured store and builds the repositories on top of it.
func NewStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return newMongoStores(ctx, cfg)
	case config.DriverPostgres:
		gdb, err := db.OpenPostgres(db.LoadConfigFromEnv(), Models()...)
		if err != nil {
			return nil, err
		}
		return NewGormStores(gdb), nil
	case config.DriverSQLite:
		gdb, err := db.OpenSQLite(cfg.SQLitePath, Models()...)
		if err != nil {
			return nil, err
		}
		return NewGormStores(gdb), nil
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// NewGormStores builds the repositories over an already migrated gorm.DB.
func NewGormStores(gdb *gorm.DB) *Stores {
	return &Stores{
		Users:   authadapters.NewUserGorm(gdb),
		Catalog: catalogadapters.NewCatalogGorm(gdb),
		Close: func(context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func newMongoStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	client, err := platformmongo.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	database := client.Database(cfg.MongoDatabase)

	users := authadapters.NewUserMongo(database)
	if err := users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	catalog := catalogadapters.NewCatalogMongo(database)
	if err := catalog.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Stores{
		Users:   users,
		Catalog: catalog,
		Close:   client.Disconnect,
	}, nil
}
