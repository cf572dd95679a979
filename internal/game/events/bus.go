package events

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// EventBus delivers events synchronously, in subscription order. A panicking
// subscriber or handler is logged and skipped; delivery continues.
type EventBus struct {
	mu           sync.RWMutex
	subscribers  []Subscriber
	funcHandlers map[string][]EventHandler
	logger       zerolog.Logger
}

var _ Bus = (*EventBus)(nil)

// NewEventBus creates a bus that reports through logger
func NewEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{
		funcHandlers: make(map[string][]EventHandler),
		logger:       logger.With().Str("component", "EventBus").Logger(),
	}
}

// Subscribe adds subscriber, replacing any earlier one with the same ID
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers = slices.DeleteFunc(eb.subscribers, func(s Subscriber) bool {
		return s.ID() == subscriber.ID()
	})
	eb.subscribers = append(eb.subscribers, subscriber)
	eb.logger.Debug().Str("subscriber_id", subscriber.ID()).Msg("Subscriber added")
}

// Unsubscribe removes the subscriber with the given ID
func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers = slices.DeleteFunc(eb.subscribers, func(s Subscriber) bool {
		return s.ID() == subscriberID
	})
	eb.logger.Debug().Str("subscriber_id", subscriberID).Msg("Subscriber removed")
}

// SubscribeFunc registers handler for one event type and returns its handle
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.funcHandlers[eventType] = append(eb.funcHandlers[eventType], handler)
	return fmt.Sprintf("%s#%d", eventType, len(eb.funcHandlers[eventType]))
}

// Publish hands event to every interested subscriber, then to the handlers
// registered for its type
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	subscribers := slices.Clone(eb.subscribers)
	handlers := slices.Clone(eb.funcHandlers[event.Type()])
	eb.mu.RUnlock()

	eventType := event.Type()
	eb.logger.Trace().
		Str("event_type", eventType).
		Str("game_id", event.GameID()).
		Msg("Publishing event")

	for _, s := range subscribers {
		if s.InterestedIn(eventType) {
			eb.deliver(eventType, s.ID(), func() { s.HandleEvent(event) })
		}
	}
	for i, h := range handlers {
		eb.deliver(eventType, fmt.Sprintf("%s#%d", eventType, i+1), func() { h(event) })
	}
}

func (eb *EventBus) deliver(eventType, target string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("event_type", eventType).
				Str("target", target).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()
	fn()
}

// GetSubscriberCount returns the number of subscribers
func (eb *EventBus) GetSubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// GetFuncHandlerCount returns the number of handlers for eventType
func (eb *EventBus) GetFuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.funcHandlers[eventType])
}
