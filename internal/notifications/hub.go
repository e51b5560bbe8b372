package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBudgetUpdated    EventType = "budget_updated"
	EventItineraryCreated EventType = "itinerary_created"
)

const subscriberBuffer = 16

type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// BudgetUpdate отправляется после добавления или удаления расхода.
type BudgetUpdate struct {
	ItineraryID uuid.UUID `json:"itinerary_id"`
	Spent       float64   `json:"spent"`
	Remaining   float64   `json:"remaining"`
	PercentUsed float64   `json:"percent_used"`
	Status      string    `json:"status"`
}

// ItineraryCreated отправляется после сохранения нового маршрута.
type ItineraryCreated struct {
	ItineraryID uuid.UUID `json:"itinerary_id"`
	Destination string    `json:"destination"`
	Source      string    `json:"source"`
}

// Hub раздает события всем открытым потокам пользователя.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan Event]struct{}
	now         func() time.Time
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan Event]struct{}),
		now:         time.Now,
	}
}

// Subscribe возвращает канал событий пользователя и функцию отписки.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	subs, ok := h.subscribers[userID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.subscribers[userID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[userID]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, userID)
				}
			}
			close(ch)
		})
	}
}

// Publish рассылает событие без блокировки; медленный подписчик теряет событие.
// Возвращает число подписчиков, получивших событие.
func (h *Hub) Publish(userID uuid.UUID, eventType EventType, data any) int {
	event := Event{Type: eventType, Timestamp: h.now().UTC(), Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers возвращает число открытых потоков пользователя.
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}
