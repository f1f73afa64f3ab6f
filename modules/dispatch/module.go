package dispatch

import (
	"embed"

	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/dispatch/infrastructure/persistence"
	"github.com/lumen-rp/cadhub/modules/dispatch/presentation/controllers"
	"github.com/lumen-rp/cadhub/modules/dispatch/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/configuration"
	"github.com/lumen-rp/cadhub/pkg/eventbus"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "dispatch"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&MigrationFiles)

	conf := configuration.Use()
	hub := services.NewHub(conf.Dispatch, app.Logger())
	callRepo := persistence.NewCallRepository()

	app.RegisterServices(
		hub,
		services.NewCallService(callRepo, app.EventPublisher()),
	)
	app.RegisterControllers(controllers.NewDispatchController(app))
	registerEventForwarders(app.EventPublisher(), hub)
	return nil
}

// registerEventForwarders pushes bus events out to the websocket clients of
// the event's community.
func registerEventForwarders(bus eventbus.EventBus, hub *services.Hub) {
	bus.Subscribe(func(event services.CallCreatedEvent) {
		hub.Broadcast(event.Call.TenantID, "call.created", event.Call)
	})
	bus.Subscribe(func(event services.CallStatusChangedEvent) {
		hub.Broadcast(event.Call.TenantID, "call.status", event.Call)
	})
	bus.Subscribe(func(event approvalservices.TransitionedEvent) {
		hub.Broadcast(event.Request.TenantID, "approval.transitioned", map[string]any{
			"id":     event.Request.ID.String(),
			"kind":   string(event.Request.Kind),
			"status": string(event.Request.Status),
		})
	})
}
