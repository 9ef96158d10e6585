// Package app assembles the pieces both entry points share: the seeded
// catalog and the description assist client.
package app

import (
	"context"
	"log/slog"
	"time"

	"inventory-dashboard/internal/assist"
	"inventory-dashboard/internal/config"
	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/repository"
	"inventory-dashboard/internal/service"
	"inventory-dashboard/pkg/database"
)

// Catalog returns the category set and a store holding the seed products.
// A seed that cannot be loaded is logged and the store starts empty.
func Catalog(cfg *config.Config, log *slog.Logger) (repository.ProductRepository, model.Categories, error) {
	categories, err := cfg.LoadCategories()
	if err != nil {
		return nil, model.Categories{}, err
	}

	repo := repository.NewProductRepo()
	seeds, err := cfg.LoadSeed()
	if err != nil {
		log.Warn("failed to load seed catalog", "error", err)
		return repo, categories, nil
	}
	n, err := service.SeedCatalog(repo, seeds, categories, time.Now())
	if err != nil {
		log.Warn("seed catalog rejected", "error", err)
		return repo, categories, nil
	}
	log.Info("catalog seeded", "products", n)
	return repo, categories, nil
}

// Describer builds the description client. Without an API key every
// request gets the fallback text; without Redis nothing is cached.
func Describer(ctx context.Context, cfg *config.Config, log *slog.Logger) assist.Describer {
	var gen assist.Generator
	if key := cfg.GenerationKey(); key != "" {
		g, err := assist.NewGemini(ctx, key, cfg.GeminiModel)
		if err != nil {
			log.Warn("description assist disabled", "error", err)
		} else {
			gen = g
		}
	} else {
		log.Warn("GEMINI_API_KEY not set, descriptions will use the fallback text")
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Warn("description cache disabled", "error", err)
	}

	return assist.NewClient(gen, assist.Options{
		Cache:   assist.NewCache(redisClient, cfg.AssistCacheTTL),
		Timeout: cfg.AssistTimeout,
		Logger:  log,
	})
}
