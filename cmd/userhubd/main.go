// Command userhubd runs the userhub authentication API.
//
// Configuration comes from USERHUB_* environment variables (see
// userhub.ConfigFromEnv). Store selection: USERHUB_DATASTORE_PROJECT
// picks Cloud Datastore, USERHUB_DATABASE_DSN picks GORM/PostgreSQL,
// and with neither set a file store under USERHUB_DATA_DIR (default
// ./data) is used. With USERHUB_SMTP_HOST set, verification mail goes
// out over SMTP; otherwise it is logged.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/userhub/userhub"
	fsstore "github.com/userhub/userhub/stores/fs"
	gaestore "github.com/userhub/userhub/stores/gae"
	gormstore "github.com/userhub/userhub/stores/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := userhub.ConfigFromEnv()
	if cfg.JWTSecretKey == "" {
		logger.Error("USERHUB_JWT_SECRET_KEY is not set, refusing to start")
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open user store", "error", err)
		os.Exit(1)
	}

	var mailer userhub.Mailer = &userhub.ConsoleMailer{}
	if cfg.SMTPHost != "" {
		mailer = userhub.NewSMTPMailer(cfg)
	}

	auth := &userhub.Auth{
		Store:  store,
		Mailer: mailer,
		Config: cfg,
	}

	root := mux.NewRouter()
	root.PathPrefix("/avatars/").Handler(
		http.StripPrefix("/avatars/", http.FileServer(http.Dir(auth.EnsureDefaults().Avatars.Dir()))))
	root.PathPrefix("/").Handler(auth.Handler())

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      logRequests(logger, root),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

func openStore(cfg *userhub.Config) (userhub.UserStore, error) {
	if project := os.Getenv("USERHUB_DATASTORE_PROJECT"); project != "" {
		client, err := datastore.NewClient(context.Background(), project)
		if err != nil {
			return nil, err
		}
		slog.Info("using datastore store", "project", project)
		return gaestore.NewUserStore(client, os.Getenv("USERHUB_DATASTORE_NAMESPACE")), nil
	}

	if cfg.DatabaseDSN == "" {
		dataDir := os.Getenv("USERHUB_DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		slog.Info("using file store", "dir", dataDir)
		return fsstore.NewUserStore(dataDir), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := gormstore.AutoMigrate(db); err != nil {
		return nil, err
	}
	slog.Info("using gorm store")
	return gormstore.NewUserStore(db), nil
}

// logRequests logs method, path, status and latency for every request.
func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
