package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversSynchronously(t *testing.T) {
	d := NewInMemoryDispatcher()

	var order []string
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		order = append(order, "first")
		return nil
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		order = append(order, "second")
		return nil
	})
	d.Subscribe(EventLeadCreated, func(ctx context.Context, e Event) error {
		order = append(order, "lead")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcherFailingHandlerDoesNotBlockOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	failure := errors.New("smtp unreachable")
	var delivered bool
	d.Subscribe(EventTicketAssigned, func(ctx context.Context, e Event) error {
		return failure
	})
	d.Subscribe(EventTicketAssigned, func(ctx context.Context, e Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketAssigned})
	assert.ErrorIs(t, err, failure)
	assert.True(t, delivered)
}
