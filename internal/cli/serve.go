package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/lexora/internal/api/handlers"
	"github.com/cloo-solutions/lexora/internal/chunker"
	"github.com/cloo-solutions/lexora/internal/config"
	"github.com/cloo-solutions/lexora/internal/embedding"
	"github.com/cloo-solutions/lexora/internal/index"
	"github.com/cloo-solutions/lexora/internal/jobs"
	"github.com/cloo-solutions/lexora/internal/llm"
	"github.com/cloo-solutions/lexora/internal/registry"
	"github.com/cloo-solutions/lexora/internal/server"
	"github.com/cloo-solutions/lexora/internal/service"
	"github.com/cloo-solutions/lexora/internal/telemetry"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the lexora API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("no model endpoint configured: set LEXORA_OPENAI_API_KEY or LEXORA_OPENAI_BASE_URL")
	}

	provider := embedding.NewOpenAIProvider(embedding.Config{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		Model:      openai.EmbeddingModel(cfg.EmbeddingModel),
		Dimensions: cfg.EmbeddingDimensions,
	})
	generator := llm.NewOpenAIGenerator(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.ChatModel,
	})

	reg := registry.New()
	idx := index.NewMemory(cfg.MaxChunks)

	chunkCfg := chunker.Config{
		MaxChars: cfg.ChunkMaxChars,
		MinChars: cfg.ChunkMinChars,
		Overlap:  cfg.ChunkOverlap,
	}

	pipeline := service.NewIngestPipeline(provider, chunkCfg)
	retrieval := service.NewRetrievalEngine(provider, idx, reg)
	synth := service.NewSynthesizer(generator, service.MeanRelevance{})
	orchestrator := service.NewOrchestrator(pipeline, retrieval, synth, reg, idx, cfg.AskTimeout)

	probe := jobs.NewLLMProbe(generator, orchestrator)
	probeWorker := jobs.NewWorker(probe, cfg.ProbeInterval)
	go probeWorker.Start(ctx)
	log.Println("llm availability probe started")

	routerCfg := server.RouterConfig{
		UploadHandler:   handlers.NewUploadHandler(orchestrator, cfg.MaxUploadBytes),
		AskHandler:      handlers.NewAskHandler(orchestrator),
		StatusHandler:   handlers.NewStatusHandler(orchestrator),
		DocumentHandler: handlers.NewDocumentHandler(orchestrator),
		MaxBodyBytes:    cfg.MaxUploadBytes,
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	probeWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
