package notifications

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestHubPublishSubscribe проверяет доставку события подписчику.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	update := BudgetUpdate{ItineraryID: uuid.New(), Spent: 250, Remaining: 750, PercentUsed: 25, Status: "on track"}
	if delivered := hub.Publish(userID, EventBudgetUpdated, update); delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}

	select {
	case event := <-ch:
		if event.Type != EventBudgetUpdated {
			t.Fatalf("expected %s, got %s", EventBudgetUpdated, event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
		if got, ok := event.Data.(BudgetUpdate); !ok || got.Spent != 250 {
			t.Fatalf("unexpected payload: %#v", event.Data)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestHubIsolatesUsers проверяет, что событие не уходит чужому пользователю.
func TestHubIsolatesUsers(t *testing.T) {
	hub := NewHub()
	owner := uuid.New()
	other := uuid.New()

	ch, unsubscribe := hub.Subscribe(other)
	defer unsubscribe()

	if delivered := hub.Publish(owner, EventItineraryCreated, nil); delivered != 0 {
		t.Fatalf("expected no deliveries, got %d", delivered)
	}
	select {
	case event := <-ch:
		t.Fatalf("unexpected event %v", event)
	default:
	}
}

// TestHubDropsWhenFull проверяет, что переполненный подписчик не блокирует публикацию.
func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	_, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	for i := 0; i < subscriberBuffer; i++ {
		hub.Publish(userID, EventBudgetUpdated, nil)
	}
	if delivered := hub.Publish(userID, EventBudgetUpdated, nil); delivered != 0 {
		t.Fatalf("expected dropped event, got %d deliveries", delivered)
	}
}

// TestHubUnsubscribe проверяет закрытие канала и повторную отписку.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	if hub.Subscribers(userID) != 1 {
		t.Fatalf("expected 1 subscriber")
	}
	unsubscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
	if hub.Subscribers(userID) != 0 {
		t.Fatalf("expected no subscribers")
	}
}

// TestWriteEvent проверяет формат SSE-кадра.
func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	event := Event{Type: EventItineraryCreated, Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	if err := WriteEvent(&buf, event); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "event: itinerary_created\ndata: {") {
		t.Fatalf("unexpected frame: %q", out)
	}
	if !strings.HasSuffix(out, "}\n\n") {
		t.Fatalf("frame must end with blank line: %q", out)
	}
}
