package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"YieldSense/internal/service/ticker"
	"YieldSense/pkg/config"
	xhttp "YieldSense/pkg/http"
	pkgkafka "YieldSense/pkg/kafka"
	applogger "YieldSense/pkg/logger"
)

// App encapsulates the application lifecycle. Infrastructure clients are
// owned by the injector and released through its cleanup function.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	hub        *ticker.Hub
	producer   *pkgkafka.Producer
}

// New creates an App. hub and producer are nil when disabled.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, hub *ticker.Hub, producer *pkgkafka.Producer) *App {
	return &App{cfg: cfg, l: l, httpServer: srv, hub: hub, producer: producer}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if a.producer != nil {
		a.l.AttachDigest(&applogger.DigestConfig{
			FlushInterval: 30 * time.Second,
			Topic:         a.cfg.Kafka.LogsTopic,
			Publisher:     a.producer,
		})
		a.l.Info("app.run error digest attached", applogger.String("topic", a.cfg.Kafka.LogsTopic))
	}

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	if a.hub != nil {
		go a.hub.Run(hubCtx)
		a.l.Info("app.run price ticker started", applogger.Duration("interval_ms", a.cfg.Ticker.Interval))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("app.run http start failed", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.l.Info("app.run shutdown signal received")

	cancelHub()
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("app.shutdown http stop failed", applogger.Error(err))
	}

	// flush pending digest entries while the producer is still open
	a.l.DetachDigest()

	a.l.Info("app.shutdown complete")
	return nil
}
