package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Cheertaboi/loyalty-billing-service/internal/api"
	"github.com/Cheertaboi/loyalty-billing-service/internal/config"
	"github.com/Cheertaboi/loyalty-billing-service/internal/notify"
	"github.com/Cheertaboi/loyalty-billing-service/internal/repository"
	"github.com/Cheertaboi/loyalty-billing-service/internal/service"
	"github.com/Cheertaboi/loyalty-billing-service/pkg/db"
)

func main() {
	app := &cli.App{
		Name:  "billing-service",
		Usage: "loyalty-aware billing backend",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Subcommands: []*cli.Command{
					{Name: "up", Action: migrateAction(db.Up)},
					{Name: "down", Action: migrateAction(db.Down)},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("billing-service failed")
	}
}

func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func migrateAction(dir db.Direction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		log := setupLogger(cfg.Log)

		conn, err := db.NewPostgresConnection(cfg.DB)
		if err != nil {
			return errors.Wrap(err, "db connect")
		}
		defer conn.Close()

		if err := db.Migrate(conn, dir); err != nil {
			return errors.Wrap(err, "migrate")
		}
		log.WithField("direction", dir).Info("migrations applied")
		return nil
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	log := setupLogger(cfg.Log)

	conn, err := db.NewPostgresConnection(cfg.DB)
	if err != nil {
		return errors.Wrap(err, "db connect")
	}
	defer conn.Close()

	products := repository.NewProductRepo(conn)
	roles := repository.NewRoleRepo(conn)
	customers := repository.NewCustomerRepo(conn)
	staff := repository.NewStaffRepo(conn)
	sales := repository.NewSaleRepo(conn)
	store := repository.NewStore(conn)

	var delivery notify.Notifier = notify.NewLogNotifier(log)
	if cfg.Notify.WebhookURL != "" {
		delivery = notify.NewWebhookNotifier(notify.WebhookConfig{
			URL:        cfg.Notify.WebhookURL,
			Token:      cfg.Notify.WebhookToken,
			Timeout:    cfg.Notify.Timeout,
			MaxRetries: cfg.Notify.MaxRetries,
		}, log)
	}
	notifier := notify.NewDispatcher(delivery, cfg.Notify.QueueSize, log)

	catalog := service.NewCatalogService(products, roles, cfg.Cache.TTL, log)
	handler := api.NewRouter(api.Services{
		Carts: service.NewCartService(customers, catalog),
		Settlement: service.NewSettlementService(store, notifier, service.SettlementConfig{
			MaxRetries:  cfg.Settlement.MaxRetries,
			SalesMadeBy: cfg.Settlement.SalesMadeBy,
		}, log),
		Sales:     service.NewSalesService(sales, customers),
		Catalog:   catalog,
		Customers: service.NewCustomerService(customers, catalog, cfg.Loyalty.DefaultRole, log),
		Staff:     service.NewStaffService(staff),
	}, log)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		s := <-sig
		log.WithField("signal", s.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("HTTP server shutdown")
		}
		if err := notifier.Close(ctx); err != nil {
			log.WithError(err).WithField("pending", notifier.Pending()).Warn("notification queue not drained")
		}
		close(idleConnsClosed)
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("starting billing-service")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "listen")
	}

	<-idleConnsClosed
	log.Info("server stopped")
	return nil
}
