package eventbus_test

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mozartiade/archive/pkg/eventbus"
)

type reordered struct {
	Year int
}

func silentBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func TestPublishDispatchesToMatchingSubscriber(t *testing.T) {
	bus := silentBus()

	var mu sync.Mutex
	var got []int
	bus.Subscribe(func(e reordered) {
		mu.Lock()
		got = append(got, e.Year)
		mu.Unlock()
	})

	bus.Publish(reordered{Year: 1784})
	bus.Publish(reordered{Year: 1791})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1784, 1791}, got)
}

func TestPublishSkipsNonMatchingSubscriber(t *testing.T) {
	bus := silentBus()

	called := false
	bus.Subscribe(func(e struct{ Name string }) {
		called = true
	})

	bus.Publish(reordered{Year: 1784})
	require.False(t, called)
}

func TestPublishRecoversFromPanickingSubscriber(t *testing.T) {
	bus := silentBus()

	bus.Subscribe(func(e reordered) {
		panic("subscriber bug")
	})
	delivered := false
	bus.Subscribe(func(e reordered) {
		delivered = true
	})

	require.NotPanics(t, func() {
		bus.Publish(reordered{Year: 1784})
	})
	require.True(t, delivered)
}

func TestUnsubscribe(t *testing.T) {
	bus := silentBus()

	count := 0
	handler := func(e reordered) { count++ }
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Publish(reordered{Year: 1784})
	bus.Unsubscribe(handler)
	bus.Publish(reordered{Year: 1791})

	require.Equal(t, 1, count)
	require.Equal(t, 0, bus.SubscribersCount())
}
