package business

import (
	"embed"

	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/business/infrastructure/persistence"
	"github.com/lumen-rp/cadhub/modules/business/presentation/controllers"
	"github.com/lumen-rp/cadhub/modules/business/services"
	"github.com/lumen-rp/cadhub/pkg/application"
)

//go:embed presentation/locales/*.json
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "business"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	workflow := app.Service(approvalservices.WorkflowService{}).(*approvalservices.WorkflowService)
	businessRepo := persistence.NewBusinessRepository()

	app.RegisterServices(services.NewBusinessService(businessRepo, workflow))
	app.RegisterControllers(controllers.NewBusinessesController(app))
	return nil
}
