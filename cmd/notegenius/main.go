package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/ai"
	"github.com/notegenius/notegenius/internal/config"
	"github.com/notegenius/notegenius/internal/db"
	"github.com/notegenius/notegenius/internal/filestore"
	"github.com/notegenius/notegenius/internal/handler"
	"github.com/notegenius/notegenius/internal/job"
	"github.com/notegenius/notegenius/internal/repo"
	"github.com/notegenius/notegenius/internal/schedule"
	"github.com/notegenius/notegenius/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "notegenius",
		Short: "notegenius backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run notegenius server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			_ = godotenv.Load()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	userRepo := repo.NewUserRepo(conn)
	noteRepo := repo.NewNoteRepo(conn)
	embeddingRepo := repo.NewEmbeddingRepo(conn)

	var avatarStore filestore.Store
	if cfg.FileStore.Type != "" {
		store, err := filestore.New(cfg.FileStore)
		if err != nil {
			return fmt.Errorf("init file store: %w", err)
		}
		avatarStore = store
	}

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	aiService := service.NewAIService(aiProvider, cfg.AI.Model, cfg.AI.MaxInputChars, cfg.AI.Timeout, embeddingRepo)

	authService := service.NewAuthService(userRepo, avatarStore, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	noteService := service.NewNoteService(noteRepo, embeddingRepo, aiService)
	mailSender := service.NewEmailSender(cfg.Mail)
	reminderService := service.NewReminderService(
		noteRepo,
		userRepo,
		mailSender,
		time.Duration(cfg.Reminder.LookaheadHours)*time.Hour,
		cfg.Reminder.BatchSize,
	)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService),
		Notes:       handler.NewNoteHandler(noteService),
		AI:          handler.NewAIHandler(aiService, noteService),
		JWTSecret:   []byte(cfg.JWTSecret),
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   time.Duration(cfg.RateLimitMS) * time.Millisecond,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewReminderJob(reminderService), cfg.Reminder.CronSpec); err != nil {
		return err
	}
	scheduler.Start(ctx)

	server := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: router,
	}
	go func() {
		logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	scheduler.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
