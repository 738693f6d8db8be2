package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ivankudzin/guildbot/internal/app/apiapp"
	"github.com/ivankudzin/guildbot/internal/app/botapp"
	"github.com/ivankudzin/guildbot/internal/config"
	"github.com/ivankudzin/guildbot/internal/infra/logger"
	"github.com/ivankudzin/guildbot/internal/repo/memory"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pending := memory.NewPendingRepo()

	bot, err := botapp.New(cfg, pending, log)
	if err != nil {
		log.Fatal("create bot app", zap.Error(err))
	}

	api, err := apiapp.New(cfg, apiapp.Dependencies{Pending: pending}, log)
	if err != nil {
		log.Fatal("create keep-alive app", zap.Error(err))
	}

	apiErr := make(chan error, 1)
	go func() {
		apiErr <- api.Run()
	}()

	botErr := make(chan error, 1)
	go func() {
		botErr <- bot.Run(ctx)
	}()

	botStopped := false
	select {
	case <-ctx.Done():
	case err := <-apiErr:
		if err != nil {
			log.Error("keep-alive server failed", zap.Error(err))
		}
		stop()
	case err := <-botErr:
		botStopped = true
		if err != nil {
			log.Error("bot stopped with error", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown keep-alive app", zap.Error(err))
	}

	if botStopped {
		return
	}
	select {
	case err := <-botErr:
		if err != nil {
			log.Error("bot stopped with error", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		log.Warn("bot did not stop before shutdown timeout")
	}
}
