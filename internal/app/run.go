package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cemtutar/campus-parking/internal/config"
	httpapi "github.com/cemtutar/campus-parking/internal/httpapi"
	parking "github.com/cemtutar/campus-parking/internal/modules/parking"
	"github.com/cemtutar/campus-parking/internal/modules/parking/repository"
	"github.com/cemtutar/campus-parking/internal/modules/parking/service"
	parkingviews "github.com/cemtutar/campus-parking/internal/modules/parking/views"
	"github.com/cemtutar/campus-parking/internal/mqtt"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"apiBaseURL", cfg.APIBaseURL,
		"apiTimeout", cfg.APITimeout,
		"mapCenterLat", cfg.MapCenterLat,
		"mapCenterLon", cfg.MapCenterLon,
		"mapZoom", cfg.MapZoom,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopicPrefix", cfg.MQTTTopicPrefix,
	)

	if err := parkingviews.LoadTemplates(); err != nil {
		return err
	}

	repo := repository.NewRepository(cfg.APIBaseURL, cfg.APITimeout)

	var (
		publisher  *mqtt.Publisher
		events     service.EventPublisher
		mqttStatus httpapi.MQTTStatus
	)
	if cfg.MQTTEnabled() {
		publisher = mqtt.NewPublisher(cfg, slog.Default())
		events, mqttStatus = publisher, publisher

		// Use a short timeout for the initial connect so a missing broker does not block startup.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err := publisher.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without spot events until it reconnects)", "error", err)
		}
	} else {
		slog.Info("mqtt disabled, spot events will not be published")
	}

	dashboard := service.NewService(repo, events, slog.Default())
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = dashboard.Run(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	// A failed first load only shows up as the dashboard error; the page
	// still works and can be refreshed.
	if err := dashboard.Load(ctx); err != nil {
		return err
	}

	mux := httpapi.NewMux(dashboard, cfg.StaticDir, mqttStatus)
	parking.RegisterFeature(mux, dashboard, cfg)

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if publisher != nil {
		slog.Info("mqtt disconnecting")
		publisher.Disconnect()
	}

	return ctx.Err()
}
