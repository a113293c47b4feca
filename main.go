package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"pos-service/catalog"
	"pos-service/clients"
	"pos-service/config"
	"pos-service/handlers"
	"pos-service/orders"
	"pos-service/rabbitmq"
	"pos-service/realtime"
	"pos-service/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "pos-service",
		Usage: "cashier-facing cart and order service for the café POS",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port, overrides PORT"},
			&cli.StringFlag{Name: "log-level", Usage: "log level, overrides LOG_LEVEL"},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("pos-service stopped")
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	setupLogging(cfg.LogLevel)

	log.WithFields(log.Fields{
		"port":    cfg.Port,
		"backend": cfg.BackendURL,
	}).Info("starting pos-service")

	backend := clients.NewBackend(cfg.BackendURL, cfg.BackendTimeout)
	book := orders.NewBook(backend)
	hub := realtime.NewHub()
	defer hub.Close()
	book.OnChange(hub.NotifyOrdersChanged)

	// background work runs with the service token, outside any terminal session
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	serviceCtx := clients.WithToken(ctx, cfg.ServiceToken)

	var publisher orders.EventPublisher = rabbitmq.NopPublisher{}
	var pool *rabbitmq.ChannelPool
	var workers sync.WaitGroup
	if cfg.MessagingEnabled() {
		pool, err = rabbitmq.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, cfg.ChannelPoolSize)
		if err != nil {
			return errors.Wrap(err, "failed to create RabbitMQ channel pool")
		}
		defer pool.Close()
		publisher = rabbitmq.NewPublisher(pool, cfg.RabbitMQEventsQueue)

		for i := 0; i < cfg.NumWorkers; i++ {
			worker, err := rabbitmq.NewWorker(i+1, pool.Connection(), cfg.RabbitMQUpdatesQueue, book)
			if err != nil {
				return errors.Wrapf(err, "failed to create worker %d", i+1)
			}
			workers.Add(1)
			go worker.Start(serviceCtx, &workers)
		}
		log.WithField("workers", cfg.NumWorkers).Info("order update workers started")
	} else {
		log.Info("RABBITMQ_URL not set, messaging disabled")
	}

	if err := book.Refresh(serviceCtx); err != nil {
		log.WithError(err).Warn("initial order book load failed, terminals can refresh later")
	}

	router := handlers.NewRouter(handlers.Dependencies{
		Sessions: session.NewStore(),
		Auth:     backend,
		Catalog:  catalog.NewService(backend, cfg.CatalogTTL),
		Builder:  orders.NewBuilder(backend, publisher, cfg.AdminPIN),
		Book:     book,
		Hub:      hub,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		log.Info("received shutdown signal, stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
	if pool != nil {
		// closing the connection stops the workers
		pool.Close()
		workers.Wait()
	}
	log.Info("pos-service shut down gracefully")
	return nil
}

func setupLogging(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&log.JSONFormatter{})

	if parsed >= log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}
