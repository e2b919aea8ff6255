package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestPublisherNilSafe(t *testing.T) {
	// A service without an injected publisher must still be able to write
	var p *Publisher
	p.Publish(context.Background(), "production_order", "created", 1)

	// No sinks at all is also fine
	NewPublisher(nil, nil, nil).Publish(context.Background(), "workstation", "updated", 2)
}

func TestPublisherBroadcastsToHub(t *testing.T) {
	hub := NewHub()
	client := &Client{ID: "test-client", Events: make(chan SSEEvent, 4)}
	hub.Register(client)
	defer hub.Unregister(client.ID)

	p := NewPublisher(nil, hub, nil)
	p.Publish(context.Background(), "quality_check", "created", 42)

	select {
	case evt := <-client.Events:
		if evt.EventType != "quality_check_created" {
			t.Errorf("Expected event type quality_check_created, got %s", evt.EventType)
		}
		var decoded Event
		if err := json.Unmarshal([]byte(evt.Data), &decoded); err != nil {
			t.Fatalf("Bad event payload: %v", err)
		}
		if decoded.ID != 42 || decoded.Entity != "quality_check" || decoded.Action != "created" {
			t.Errorf("Unexpected payload: %+v", decoded)
		}
	case <-time.After(time.Second):
		t.Fatal("No event received")
	}
}

func TestHubSkipsFullClientBuffer(t *testing.T) {
	hub := NewHub()
	client := &Client{ID: "slow-client", Events: make(chan SSEEvent, 1)}
	hub.Register(client)
	defer hub.Unregister(client.ID)

	// Second broadcast must not block on the full buffer
	done := make(chan struct{})
	go func() {
		hub.Broadcast(SSEEvent{EventType: "a", Data: "{}"})
		hub.Broadcast(SSEEvent{EventType: "b", Data: "{}"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a slow client")
	}
}
