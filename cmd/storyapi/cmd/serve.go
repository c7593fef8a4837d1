package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnlatif16/Story-stories/internal/auth"
	"github.com/johnlatif16/Story-stories/internal/blob"
	"github.com/johnlatif16/Story-stories/internal/db/bunx"
	"github.com/johnlatif16/Story-stories/internal/repository"
	"github.com/johnlatif16/Story-stories/internal/server"
	"github.com/johnlatif16/Story-stories/internal/services/stories"
	"github.com/johnlatif16/Story-stories/internal/services/upload"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Story API server",
	Long:  `Starts the HTTP server with the public feed and the admin publishing endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		authority, err := auth.NewAuthority(cfg.JWTSecret)
		if err != nil {
			return fmt.Errorf("failed to configure token authority: %w", err)
		}

		// Pick the durable tier: database when configured, otherwise the
		// fail-soft file snapshot store.
		var repo repository.StoryRepository
		if cfg.DatabaseURL != "" {
			db, err := bunx.NewDB(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer bunx.Close(db)

			bunRepo := repository.NewBunStoryRepository(db)
			if err := bunRepo.EnsureSchema(cmd.Context()); err != nil {
				return fmt.Errorf("failed to ensure database schema: %w", err)
			}
			repo = bunRepo
			log.Printf("Connected to database")
		} else {
			repo = repository.NewFileStoryRepository(cfg.DataFile)
			log.Printf("Using file store at %s", cfg.DataFile)
		}

		// Pick the asset store: S3-compatible object storage when
		// configured, otherwise local disk served under /uploads/.
		var assets blob.Store
		var assetDir string
		if cfg.S3.Enabled() {
			s3Store, err := blob.NewS3Store(cfg.S3)
			if err != nil {
				return fmt.Errorf("failed to configure object storage: %w", err)
			}
			assets = s3Store
			log.Printf("Uploads go to s3 bucket %q at %s", cfg.S3.Bucket, cfg.S3.Endpoint)
		} else {
			diskStore, err := blob.NewDiskStore(cfg.UploadDir)
			if err != nil {
				return fmt.Errorf("failed to prepare upload directory: %w", err)
			}
			assets = diskStore
			assetDir = diskStore.Dir()
			log.Printf("Uploads go to local directory %s", assetDir)
		}

		service := stories.NewService(repo, stories.NewCache()).
			WithAssetStore(assets)
		pipeline := upload.NewPipeline(assets, cfg.MaxUploadBytes)

		r := server.NewRouter(server.RouterOptions{
			Service:   service,
			Pipeline:  pipeline,
			Authority: authority,
			Cfg:       cfg,
			AssetDir:  assetDir,
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			log.Printf("Server URL: %s", cfg.ServerURL)
			serverErrors <- srv.ListenAndServe()
		}()

		// Wait for interrupt signal
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
