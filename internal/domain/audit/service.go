package audit

import "context"

// Service records audit events asynchronously and serves queries over the
// log. Record never blocks the caller on database writes.
type Service interface {
	// Record queues an event for background persistence. The event's
	// OccurredAt is set to now when zero.
	Record(ctx context.Context, event Event)

	ListEvents(ctx context.Context, filter Filter) (ListEventResponse, error)
	GetEvent(ctx context.Context, id string) (EventResponse, error)

	// Lifecycle
	Stop()
}
