package leo

import (
	"embed"

	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/leo/infrastructure/persistence"
	"github.com/lumen-rp/cadhub/modules/leo/presentation/controllers"
	"github.com/lumen-rp/cadhub/modules/leo/services"
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
	return "leo"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	workflow := app.Service(approvalservices.WorkflowService{}).(*approvalservices.WorkflowService)
	warrantRepo := persistence.NewWarrantRepository()
	linkRepo := persistence.NewExpungementLinkRepository()

	app.RegisterServices(
		services.NewWarrantService(warrantRepo, workflow),
		services.NewExpungementService(warrantRepo, linkRepo, workflow),
	)
	app.RegisterControllers(
		controllers.NewWarrantsController(app),
		controllers.NewExpungementsController(app),
	)
	return nil
}
