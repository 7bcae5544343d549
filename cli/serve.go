package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"askyourdata/ai"
	"askyourdata/cache"
	"askyourdata/config"
	"askyourdata/db"
	_ "askyourdata/docs" // Swagger docs
	"askyourdata/handlers"
	"askyourdata/service"
	"askyourdata/store"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	chatLog, err := db.New()
	if err != nil {
		return err
	}
	defer chatLog.Close()

	// Synthetic tables live for the whole process; translations expire.
	tables := store.NewTables(cache.NewWithExpiration(-1, 10*time.Minute))
	registry := store.NewRegistry()

	aiService := ai.New(ai.Options{
		APIKey:            cfg.LLMAPIKey,
		Model:             cfg.ModelName,
		APIURL:            cfg.LLMAPIURL,
		RequestsPerSecond: cfg.LLMRPS,
	})
	defer aiService.Close()
	if !aiService.Configured() {
		log.Println("Warning: LLM_API_KEY is not set; questions will be answered with a default query")
	}
	bridge := ai.NewBridge(aiService, cache.New(), cfg.LLMTimeout)

	var sqlService *service.SQLServerService
	if cfg.SQLServer.Enabled() {
		sqlService, err = service.NewSQLServerService(cfg.SQLServer)
		if err != nil {
			log.Printf("Warning: Failed to initialize SQL Server service: %v", err)
			log.Println("SQL Server import will be unavailable")
		} else {
			defer sqlService.Close()
			log.Println("SQL Server service initialized successfully")
		}
	}

	h := handlers.New(
		service.NewIngestion(registry, tables, cfg.MaxUploadBytes, cfg.PreviewRows),
		service.NewConversations(registry, tables, bridge, chatLog, cfg.SampleRows),
		aiService,
		sqlService,
		cfg.MaxUploadBytes,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
