package dispatch

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	approvalservices "github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/modules/dispatch/domain/entities/call"
	"github.com/lumen-rp/cadhub/modules/dispatch/services"
	"github.com/lumen-rp/cadhub/pkg/configuration"
	"github.com/lumen-rp/cadhub/pkg/eventbus"
)

func TestRegisterEventForwarders(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())
	hub := services.NewHub(configuration.DispatchOptions{}, logrus.New())

	registerEventForwarders(bus, hub)
	assert.Equal(t, 3, bus.SubscribersCount())

	// Delivery with no connected clients is a no-op; the forwarders must
	// still consume every event shape without panicking.
	bus.Publish(services.CallCreatedEvent{Call: call.Call{ID: uuid.New(), TenantID: uuid.New()}})
	bus.Publish(services.CallStatusChangedEvent{Call: call.Call{ID: uuid.New(), TenantID: uuid.New(), Status: call.StatusAssigned}})
	bus.Publish(approvalservices.TransitionedEvent{Request: approval.Request{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Kind:     approval.KindWarrant,
		Status:   approval.StatusAccepted,
	}})
}
