package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	_ "carnet/docs"
	"carnet/internal/config"
	"carnet/internal/db"
	"carnet/internal/handlers"
	"carnet/internal/logging"
	"carnet/internal/mail"
	"carnet/internal/pdf"
	"carnet/internal/repositories"
	"carnet/internal/routes"
	"carnet/internal/services"
	"carnet/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Run loads configuration, prepares the database and serves the API until
// ctx is canceled or the process receives SIGINT/SIGTERM.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.NewJSON(os.Stdout, cfg.Server.LogLevel)
	log.Info(ctx, "config loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error(context.Background(), "close database", "err", err)
		}
	}()
	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}

	var store storage.ObjectStore
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		store = s3
	} else {
		log.Warn(ctx, "storage bucket not configured, note sharing disabled")
	}

	queue := mail.NewWorkerQueue(mail.NewSMTPSender(cfg.Email), log, cfg.Email.QueueSize)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      NewHandler(cfg, conn, queue, store, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), queue.Close(shutdownCtx))
	})
	return g.Wait()
}

// NewHandler wires repositories, services and handlers into the HTTP
// handler served by Run. store may be nil.
func NewHandler(cfg *config.Config, conn *sql.DB, queue mail.Queue, store storage.ObjectStore, log logging.Logger) http.Handler {
	repos := repositories.NewPostgresManager()

	emails := services.NewEmailService(queue, cfg.Email.FrontendURL)
	auth := services.NewAuthService(conn, repos, cfg.Auth, log)
	accounts := services.NewAccountService(conn, repos, auth, emails, log)
	resets := services.NewPasswordResetService(conn, repos, auth, emails, cfg.Auth.ResetTokenTTL, log)
	notes := services.NewNoteService(conn, repos, log)
	exports := services.NewExportService(conn, repos, notes, pdf.NewNoteRenderer(cfg.PDF.FontPath), store, cfg.Storage.PresignTTL, log)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	routes.SetupRoutes(router, routes.Handlers{
		Account: handlers.NewAccountHandler(accounts, log),
		Auth:    handlers.NewAuthHandler(auth, resets, log),
		Notes:   handlers.NewNoteHandler(notes, exports, log),
	}, auth, log)

	return corsOptions(cfg.Server.AllowedOrigins).Handler(router)
}

func corsOptions(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Origin", "Content-Type", "Authorization"},
	})
}
