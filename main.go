package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andarie1/task-manager/adapters/db"
	taskgrpc "github.com/andarie1/task-manager/adapters/grpc"
	"github.com/andarie1/task-manager/adapters/mail"
	"github.com/andarie1/task-manager/adapters/rest/handlers"
	"github.com/andarie1/task-manager/adapters/scheduler"
	"github.com/andarie1/task-manager/adapters/tokens"
	"github.com/andarie1/task-manager/config"
	"github.com/andarie1/task-manager/core"
)

func main() {
	// config
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "task-manager server configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	// logger
	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting task-manager server")

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database adapter
	storage, err := db.New(log, cfg.DBAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %v", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close db connection", "error", err)
		}
	}()

	if err := storage.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate db: %v", err)
	}

	// services
	notifier := mail.New(log, mail.Settings{
		From:     cfg.Mail.From,
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		User:     cfg.Mail.User,
		Password: cfg.Mail.Password,
	})
	service := core.NewService(log, storage, notifier)
	auth := core.NewAuthService(log, storage,
		tokens.New(cfg.Auth.SigningKey, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL))

	// grpc health
	healthSrv := taskgrpc.NewServer(log, service)
	listener, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %v", err)
	}

	// background jobs
	sched := scheduler.New(log, cfg.HTTP.Timeout)
	if err := sched.Add("health-probe", cfg.Scheduler.HealthSpec, healthSrv.Probe); err != nil {
		return err
	}
	if err := sched.Add("purge-revoked-tokens", cfg.Scheduler.PurgeSpec, func(ctx context.Context) error {
		_, err := auth.PurgeExpiredTokens(ctx)
		return err
	}); err != nil {
		return err
	}
	sched.RunAll()
	sched.Start()
	defer sched.Stop()

	// http
	mux := http.NewServeMux()
	handlers.Register(mux, log, handlers.Deps{
		Categories: service,
		Tasks:      service,
		SubTasks:   service,
		Auth:       auth,
		Pingers:    map[string]core.Pinger{"db": storage},
	}, cfg.HTTP.Timeout)

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		Handler:           mux,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("task-manager gRPC health server is running", "address", cfg.GRPC.Address)
		errCh <- healthSrv.Serve(listener)
	}()
	go func() {
		log.Info("task-manager http server is running", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	healthSrv.GracefulStop()

	return runErr
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
