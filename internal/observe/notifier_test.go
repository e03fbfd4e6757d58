package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_PublishOrder(t *testing.T) {
	var n Notifier[int]
	var got []string

	n.Subscribe(func(v int) { got = append(got, "a") })
	n.Subscribe(func(v int) { got = append(got, "b") })

	n.Publish(1)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestNotifier_Unsubscribe(t *testing.T) {
	var n Notifier[string]
	calls := 0

	unsubscribe := n.Subscribe(func(string) { calls++ })
	n.Publish("x")
	unsubscribe()
	unsubscribe()
	n.Publish("y")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, n.Len())
}

func TestNotifier_SubscribeFromCallback(t *testing.T) {
	var n Notifier[int]
	inner := 0

	n.Subscribe(func(int) {
		n.Subscribe(func(int) { inner++ })
	})

	n.Publish(1)
	n.Publish(2)
	assert.Equal(t, 1, inner)
	assert.Equal(t, 3, n.Len())
}
