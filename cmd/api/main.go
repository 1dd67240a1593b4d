package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"unmute-go/internal/api"
	"unmute-go/internal/audio"
	"unmute-go/internal/config"
	"unmute-go/internal/controller"
	"unmute-go/internal/gateway"
	"unmute-go/internal/logger"
	"unmute-go/internal/playback"
	"unmute-go/internal/report"
	"unmute-go/internal/session"
	"unmute-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	log := logger.New()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.WithField("service", "unmute-go").WithField("environment", cfg.Environment).Info("starting service")
	if cfg.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var backend gateway.Backend = gateway.MockBackend{}
	if cfg.UseMockLLM {
		log.Warn("USE_MOCK_LLM=true, AI answers are canned")
	} else if backend, err = gateway.NewGenAIBackend(ctx, cfg.APIKey); err != nil {
		log.WithError(err).Fatal("failed to create AI backend")
	}
	ai := gateway.New(backend, cfg.Gateway, log)

	st := store.New()
	seed := report.DefaultSeed(time.Now())
	if cfg.SeedPath != "" {
		log.WithField("seed_path", cfg.SeedPath).Info("loading seed workbook")
		if seed, err = report.LoadSeed(cfg.SeedPath); err != nil {
			log.WithError(err).Fatal("failed to load seed workbook")
		}
	}
	log.WithField("complaints", st.Seed(seed...)).Info("complaint store seeded")

	hub := playback.NewHub(log)
	player := audio.NewPlayer(func() (audio.Device, error) { return hub, nil }, log)
	svc := controller.New(st, ai, player, log)

	secret := cfg.SessionSecret
	if secret == "" {
		// sessions will not survive a restart
		secret = uuid.NewString()
		log.Warn("SESSION_SECRET not set, using a random per-process secret")
	}
	handler := api.NewHandler(svc, session.NewManager(secret, cfg.SessionTTL), hub, log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		svc.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server terminated")
	}
	log.Info("stopped")
}
