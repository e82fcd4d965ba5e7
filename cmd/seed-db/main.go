package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masarepas/arepa-pos/db"
	"github.com/masarepas/arepa-pos/internal/domain/catalog"
	"github.com/masarepas/arepa-pos/internal/domain/promotion"
	"github.com/masarepas/arepa-pos/internal/repository"
)

type menuJSON struct {
	Products []struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Category   string `json:"category"`
		PriceCents int64  `json:"priceCents"`
	} `json:"products"`
	Promotions []struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		Type            string `json:"type"`
		DiscountPercent int    `json:"discountPercent"`
	} `json:"promotions"`
}

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "", "path to a menu JSON file (default: embedded menu)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	data := db.SeedMenu
	if menuFile != "" {
		slog.Info("reading menu file", slog.String("path", menuFile))

		data, err = os.ReadFile(menuFile)
		if err != nil {
			return errors.Wrap(err, "read menu file")
		}
	}

	var menu menuJSON
	if err := json.Unmarshal(data, &menu); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	if err := seedProducts(ctx, pool, menu); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedPromotions(ctx, pool, menu); err != nil {
		return errors.Wrap(err, "seed promotions")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, menu menuJSON) error {
	products := repository.NewProductRepository(pool)

	slog.Info("upserting products", slog.Int("count", len(menu.Products)))

	for _, p := range menu.Products {
		product := catalog.Product{
			ID:         p.ID,
			Name:       p.Name,
			Category:   catalog.Category(p.Category),
			PriceCents: p.PriceCents,
			Active:     true,
		}
		if !product.Category.Valid() {
			return errors.Errorf("product %s: unknown category %q", p.ID, p.Category)
		}

		if err := products.Upsert(ctx, &product); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedPromotions(ctx context.Context, pool *pgxpool.Pool, menu menuJSON) error {
	promotions := repository.NewPromotionRepository(pool)

	slog.Info("upserting promotions", slog.Int("count", len(menu.Promotions)))

	for _, p := range menu.Promotions {
		promo := promotion.Promotion{
			ID:              p.ID,
			Name:            p.Name,
			Type:            promotion.Type(p.Type),
			DiscountPercent: p.DiscountPercent,
			Active:          true,
		}

		if err := promotions.Upsert(ctx, &promo); err != nil {
			return errors.Wrapf(err, "upsert promotion %s", p.ID)
		}

		slog.Info("upserted promotion", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}
