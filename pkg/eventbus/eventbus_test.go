package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-rp/cadhub/pkg/eventbus"
)

type callCreated struct {
	Location string
}

type callEnded struct{}

func TestEventBus_PublishMatchesSignature(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	var got []string
	bus.Subscribe(func(e callCreated) {
		got = append(got, e.Location)
	})
	bus.Subscribe(func(e callEnded) {
		got = append(got, "ended")
	})

	bus.Publish(callCreated{Location: "Main St"})
	bus.Publish(callEnded{})

	require.Len(t, got, 2)
	assert.Equal(t, "Main St", got[0])
	assert.Equal(t, "ended", got[1])
}

func TestEventBus_PanicInHandlerDoesNotPropagate(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	bus.Subscribe(func(e callCreated) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		bus.Publish(callCreated{Location: "5th Ave"})
	})
}

func TestEventBus_Unsubscribe(t *testing.T) {
	t.Parallel()
	bus := eventbus.NewEventPublisher(logrus.New())

	calls := 0
	handler := func(e callCreated) { calls++ }
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Publish(callCreated{})
	bus.Unsubscribe(handler)
	bus.Publish(callCreated{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.SubscribersCount())
}
