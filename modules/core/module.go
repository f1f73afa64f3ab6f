package core

import (
	"embed"

	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/core/infrastructure/persistence"
	"github.com/lumen-rp/cadhub/modules/core/presentation/controllers"
	"github.com/lumen-rp/cadhub/modules/core/services"
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
	return "core"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	workflow := app.Service(approvalservices.WorkflowService{}).(*approvalservices.WorkflowService)
	userRepo := persistence.NewUserRepository()
	tokenRepo := persistence.NewAPITokenRepository()

	app.RegisterServices(
		services.NewAuthService(userRepo, tokenRepo),
		services.NewUserService(userRepo, workflow),
	)
	app.RegisterControllers(
		controllers.NewUsersController(app),
		controllers.NewTokensController(app),
	)
	return nil
}
