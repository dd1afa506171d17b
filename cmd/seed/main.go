// Command seed loads a JSON fixture of products and brands into the configured store.
//
//	go run ./cmd/seed -file fixtures.json
//
// The file holds {"products": [...], "brands": [...]}; every entry is stored as-is.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gadget_backend/internal/app/di"
	"gadget_backend/internal/feature/catalog/domain/entity"
	catalogusecase "gadget_backend/internal/feature/catalog/usecase"
	"gadget_backend/internal/platform/config"
	"gadget_backend/internal/platform/logging"
	"gadget_backend/internal/shared/ratelimiter"
)

// fixture is the seed file layout.
type fixture struct {
	Products []entity.Document `json:"products"`
	Brands   []entity.Document `json:"brands"`
}

func main() {
	path := flag.String("file", "seed.json", "path to the JSON fixture")
	rate := flag.Int("rate", 100, "maximum writes per second (0 = unlimited)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.New(cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, *path, ratelimiter.NewRateLimiter(*rate, time.Second)); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed ok")
}

func run(ctx context.Context, cfg *config.Config, path string, limiter ratelimiter.Limiter) error {
	fx, err := readFixture(path)
	if err != nil {
		return err
	}

	stores, err := di.NewStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close(context.Background()) }()

	// Writes go through the cache so stale list entries are dropped.
	rdb := di.NewRedis(ctx, cfg)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	uc := catalogusecase.NewCatalogUsecase(di.NewCatalogRepository(rdb, cfg.CacheTTL, stores.Catalog))

	return seed(ctx, uc, limiter, fx)
}

// catalogWriter is the part of the catalog usecase seeding needs.
type catalogWriter interface {
	CreateProduct(ctx context.Context, doc entity.Document) error
	CreateBrand(ctx context.Context, doc entity.Document) error
}

func seed(ctx context.Context, uc catalogWriter, limiter ratelimiter.Limiter, fx *fixture) error {
	for i, doc := range fx.Brands {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := uc.CreateBrand(ctx, doc); err != nil {
			return fmt.Errorf("brand #%d: %w", i, err)
		}
	}
	for i, doc := range fx.Products {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := uc.CreateProduct(ctx, doc); err != nil {
			return fmt.Errorf("product #%d: %w", i, err)
		}
	}
	slog.Info("seeded catalog", "brands", len(fx.Brands), "products", len(fx.Products))
	return nil
}

func readFixture(path string) (*fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &fx, nil
}
