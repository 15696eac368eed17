package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobmatch/internal/clients/gemini"
	"github.com/maxaizer/jobmatch/internal/clients/llm"
	"github.com/maxaizer/jobmatch/internal/config"
	"github.com/maxaizer/jobmatch/internal/logger"
	"github.com/maxaizer/jobmatch/internal/metrics"
	"github.com/maxaizer/jobmatch/internal/repositories"
	"github.com/maxaizer/jobmatch/internal/services"
	log "github.com/sirupsen/logrus"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	jobs := repositories.NewJobsRepository(dbContext.DB)
	bus := EventBus.New()

	embeddingClient, err := gemini.NewClient(ctx, cfg.AI.GeminiKey, gemini.Model(cfg.AI.EmbeddingModel))
	if err != nil {
		log.Fatalf("can't create embedding client: %v", err)
	}
	defer embeddingClient.Close()
	embeddingClient.SetMinuteRateLimit(cfg.AI.EmbedMaxRequestsPerMinute)
	embeddingClient.SetDayRateLimit(cfg.AI.EmbedMaxRequestsPerDay)

	embeddings := services.NewEmbeddingService(embeddingClient)

	engine, err := services.NewSearchEngine(bus, embeddings, jobs, cfg.Search.DefaultLimit)
	if err != nil {
		log.Fatalf("can't create search engine: %v", err)
	}

	analyzer := services.NewJobAnalyzer(llm.NewFromConfig(cfg.AI))
	if analyzer.IsAvailable() {
		info := analyzer.ProviderInfo()
		log.Infof("job analyzer using %v (%v)", info.Provider, info.Model)
	} else {
		log.Warn("no LLM provider configured, analysis falls back to rule-based output")
	}

	cleaner, err := services.NewListingsCleaner(jobs, bus, cfg.Search.ListingExpirationDays)
	if err != nil {
		log.Fatalf("can't create listings cleaner: %v", err)
	}
	defer cleaner.Stop()

	stats := engine.Stats(ctx)
	log.Infof("search engine ready: %v jobs indexed, embedding model %v (%v dims)",
		stats.TotalJobs, stats.EmbeddingModel, stats.EmbeddingDimension)

	<-ctx.Done()

	log.Info("Shutting down services...")
	log.Info("Services stopped.")
}
