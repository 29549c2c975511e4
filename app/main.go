package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contenthub/contenthub/app/ai"
	"github.com/contenthub/contenthub/app/api"
	"github.com/contenthub/contenthub/app/cfg"
	"github.com/contenthub/contenthub/app/config"
	"github.com/contenthub/contenthub/app/database"
	"github.com/contenthub/contenthub/app/feed"
	"github.com/contenthub/contenthub/app/pipeline"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	if appConfig.Debug {
		// slog.SetLogLoggerLevel requires Go 1.22; this is the closest
		// equivalent on Go 1.21.
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	log.Println("Starting ContentHub server...")

	// Database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(
		appConfig.DBHost, appConfig.DBPort, appConfig.DBUser,
		appConfig.DBPassword, appConfig.DBName)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database schema at version %d (dirty: %v)", version, dirty)

	// Register configured sources
	sourceRepo := database.NewSourceRepository(db)
	articleRepo := database.NewArticleRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	publishedRepo := database.NewPublishedArticleRepository(db)

	sources, err := config.NewLoader(appConfig.SourcesFile).Load()
	if err != nil {
		log.Fatal("Failed to load source definitions:", err)
	}
	for _, source := range sources {
		if err := sourceRepo.UpsertSource(source.Name, source.URL, source.Type,
			source.IsActive(), source.CheckIntervalHours); err != nil {
			log.Printf("Warning: Failed to register source %s: %v", source.Name, err)
			continue
		}
		log.Printf("Registered source: %s (%s)", source.Name, source.URL)
	}

	// Shared completion service client with its process-wide rate limiter
	limiter := ai.NewLimiter(time.Duration(appConfig.RateLimitMs) * time.Millisecond)
	client := ai.NewClient(ai.ClientConfig{
		Provider:     appConfig.AIProvider,
		APIKey:       appConfig.APIKey,
		APIBase:      appConfig.APIBase,
		FastModel:    appConfig.FastModel,
		QualityModel: appConfig.QualityModel,
	}, limiter)

	// Pipeline components
	httpClient := &http.Client{Timeout: 10 * time.Second}
	scraper := feed.NewScraper(httpClient, sourceRepo, articleRepo,
		feed.NewContentExtractor(), appConfig.UserAgent)
	scorer := ai.NewScorer(client, articleRepo)
	titleOptimizer := ai.NewTitleOptimizer(client)
	rewriter := ai.NewRewriter(client, titleOptimizer, articleRepo, templateRepo, publishedRepo)
	generator := pipeline.NewGenerator(scraper, scorer, rewriter, publishedRepo, appConfig.ScoreLimit)

	// Recurring triggers: hourly ingestion, daily generation
	scheduler := pipeline.NewScheduler(scraper, generator,
		appConfig.DailyHour, appConfig.DailyMinute, appConfig.ArticleCount, ai.DefaultStyles())
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	apiHandler := api.NewHandler(sourceRepo, articleRepo, publishedRepo, scraper, generator, appConfig.Version)
	server := api.NewServer(apiHandler)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("ContentHub server started successfully!")
	log.Printf("Daily generation scheduled for %02d:%02d, hourly scraping at minute 0",
		appConfig.DailyHour, appConfig.DailyMinute)

	serverFailed := false
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
		serverFailed = true
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler and database are stopped via defer
	log.Println("ContentHub server shutdown complete")

	if serverFailed {
		// os.Exit skips the deferred cleanup, so run it here
		scheduler.Stop()
		db.Close()
		os.Exit(1)
	}
}
