package main

import (
	"context"
	"io/fs"
	"os"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/lumen-rp/cadhub/internal/server"
	"github.com/lumen-rp/cadhub/modules"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/configuration"
	"github.com/lumen-rp/cadhub/pkg/eventbus"
	"github.com/lumen-rp/cadhub/pkg/metrics"
)

func main() {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		logger.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("failed to reach the database")
	}

	bundle := application.LoadBundle()
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
		Bundle:   bundle,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		logger.WithError(err).Fatal("failed to load modules")
	}
	loadLocales(app, bundle, logger)

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	srv, err := server.Default(app)
	if err != nil {
		logger.WithError(err).Fatal("failed to assemble the server")
	}

	logger.WithFields(logrus.Fields{
		"address": conf.SocketAddress,
		"env":     conf.GoAppEnvironment,
	}).Info("starting server")
	if err := srv.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

func loadLocales(app application.Application, bundle *i18n.Bundle, logger *logrus.Logger) {
	for _, localeFS := range app.LocaleFiles() {
		err := fs.WalkDir(localeFS, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			_, err = bundle.LoadMessageFileFS(localeFS, path)
			return err
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to load locale files")
		}
	}
}
