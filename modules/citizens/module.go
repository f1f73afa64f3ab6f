package citizens

import (
	"embed"

	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/citizens/infrastructure/persistence"
	"github.com/lumen-rp/cadhub/modules/citizens/presentation/controllers"
	"github.com/lumen-rp/cadhub/modules/citizens/services"
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
	return "citizens"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	workflow := app.Service(approvalservices.WorkflowService{}).(*approvalservices.WorkflowService)
	citizenRepo := persistence.NewCitizenRepository()
	weaponRepo := persistence.NewWeaponRepository()

	app.RegisterServices(
		services.NewCitizenService(citizenRepo, workflow),
		services.NewWeaponService(weaponRepo, workflow),
	)
	app.RegisterControllers(
		controllers.NewCitizensController(app),
		controllers.NewWeaponsController(app),
	)
	return nil
}
