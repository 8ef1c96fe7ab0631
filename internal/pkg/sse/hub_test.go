package sse

import "testing"

func TestHubPublishReachesSubscriber(t *testing.T) {
	h := NewHub()

	ch, cleanup := h.Subscribe("user-1")
	defer cleanup()

	h.Publish("user-1", Event{UserID: "user-1", Event: "notification", Data: "hello"})

	select {
	case ev := <-ch:
		if ev.Data != "hello" {
			t.Errorf("got %v, want hello", ev.Data)
		}
	default:
		t.Fatal("expected buffered event")
	}
}

func TestHubPublishSkipsOtherUsers(t *testing.T) {
	h := NewHub()

	ch, cleanup := h.Subscribe("user-1")
	defer cleanup()

	h.Publish("user-2", Event{UserID: "user-2", Event: "notification"})

	select {
	case <-ch:
		t.Fatal("event leaked to another user's subscriber")
	default:
	}
}

func TestHubCleanupRemovesSubscriber(t *testing.T) {
	h := NewHub()

	_, cleanup := h.Subscribe("user-1")
	if h.SubscriberCount("user-1") != 1 {
		t.Fatalf("expected 1 subscriber, got %d", h.SubscriberCount("user-1"))
	}

	cleanup()
	cleanup() // second call must be a no-op

	if h.SubscriberCount("user-1") != 0 {
		t.Errorf("expected 0 subscribers after cleanup, got %d", h.SubscriberCount("user-1"))
	}
}

func TestHubShutdownClosesChannels(t *testing.T) {
	h := NewHub()

	ch, _ := h.Subscribe("user-1")
	h.Shutdown()

	if _, open := <-ch; open {
		t.Error("expected channel closed after shutdown")
	}
	if h.TotalSubscribers() != 0 {
		t.Errorf("expected 0 subscribers after shutdown, got %d", h.TotalSubscribers())
	}

	// Subscribing after shutdown yields a closed channel
	ch2, cleanup := h.Subscribe("user-2")
	defer cleanup()
	if _, open := <-ch2; open {
		t.Error("expected closed channel for post-shutdown subscribe")
	}
}
