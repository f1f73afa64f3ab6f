package approvals

import (
	"context"
	"embed"

	"github.com/lumen-rp/cadhub/modules/approvals/infrastructure/persistence"
	"github.com/lumen-rp/cadhub/modules/approvals/presentation/controllers"
	"github.com/lumen-rp/cadhub/modules/approvals/services"
	businesspersistence "github.com/lumen-rp/cadhub/modules/business/infrastructure/persistence"
	citizenspersistence "github.com/lumen-rp/cadhub/modules/citizens/infrastructure/persistence"
	corepersistence "github.com/lumen-rp/cadhub/modules/core/infrastructure/persistence"
	leopersistence "github.com/lumen-rp/cadhub/modules/leo/infrastructure/persistence"
	loggingpersistence "github.com/lumen-rp/cadhub/modules/logging/infrastructure/persistence"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/configuration"
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
	return "approvals"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	conf := configuration.Use()
	requestRepo := persistence.NewApprovalRequestRepository()
	effects := services.NewEffectApplier(
		citizenspersistence.NewCitizenRepository(),
		citizenspersistence.NewWeaponRepository(),
		leopersistence.NewWarrantRepository(),
		businesspersistence.NewBusinessRepository(),
		corepersistence.NewUserRepository(),
	)

	var audit *services.AuditRecorder
	if conf.AuditLogEnabled {
		auditCtx := composables.WithPool(context.Background(), app.DB())
		audit = services.NewAuditRecorder(
			auditCtx,
			loggingpersistence.NewAuditLogRepository(),
			app.Logger(),
			conf.AuditQueueSize,
		)
		app.OnShutdown(audit.Close)
	}

	workflow := services.NewWorkflowService(
		requestRepo,
		services.NewPermissionGate(),
		services.NewTransitionValidator(requestRepo),
		effects,
		audit,
		app.EventPublisher(),
	)

	app.RegisterServices(workflow)
	app.RegisterControllers(controllers.NewApprovalsController(app))
	return nil
}
