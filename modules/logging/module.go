package logging

import (
	"embed"

	"github.com/lumen-rp/cadhub/modules/logging/infrastructure/persistence"
	"github.com/lumen-rp/cadhub/modules/logging/presentation/controllers"
	"github.com/lumen-rp/cadhub/modules/logging/services"
	"github.com/lumen-rp/cadhub/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "logging"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&MigrationFiles)

	app.RegisterServices(services.NewAuditService(persistence.NewAuditLogRepository()))
	app.RegisterControllers(controllers.NewAuditController(app))
	return nil
}
