package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/lumen-rp/cadhub/modules"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/configuration"
	"github.com/lumen-rp/cadhub/pkg/eventbus"
)

// The migrator registers every module to collect their embedded schema files,
// then replays them through goose in registration order.
func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	db, err := sql.Open("pgx", conf.Database.ConnectionString())
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer func() {
		_ = db.Close()
	}()

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
		Bundle:   application.LoadBundle(),
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		logger.WithError(err).Fatal("failed to load modules")
	}

	goose.SetLogger(gooseLogger{logger})
	if err := goose.SetDialect("postgres"); err != nil {
		logger.WithError(err).Fatal("failed to set goose dialect")
	}

	const schemaDir = "infrastructure/persistence/schema"
	for _, schema := range app.Schemas() {
		goose.SetBaseFS(schema)
		switch command {
		case "up":
			err = goose.Up(db, schemaDir, goose.WithNoVersioning())
		case "down":
			err = goose.Down(db, schemaDir, goose.WithNoVersioning())
		default:
			err = fmt.Errorf("unknown command %q, want up or down", command)
		}
		if err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
	}
	logger.Info("migrations applied")
}

type gooseLogger struct {
	log *logrus.Logger
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatalf(format, v...)
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Infof(format, v...)
}
