package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/logger"

	"github.com/segmentio/kafka-go"
)

const (
	ChannelPatients = "patients"

	TypePatientCreated = "patient.created"
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Handler func(Event)

// MessageWriter is the part of *kafka.Writer the bus depends on.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type subscription struct {
	id      int
	handler Handler
}

// EventBus delivers events to in-process subscribers and, when a broker is
// configured, forwards them to Kafka.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]subscription
	nextID      int
	writer      MessageWriter
	timeout     time.Duration
	log         logger.Logger
}

func New(config config.Config) *EventBus {
	log := logger.New("events").Function("New")

	var writer MessageWriter
	if config.KafkaBroker != "" {
		writer = &kafka.Writer{
			Addr:                   kafka.TCP(config.KafkaBroker),
			Topic:                  config.KafkaTopic,
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		}
		log.Info("Forwarding events to kafka", "broker", config.KafkaBroker, "topic", config.KafkaTopic)
	}

	return NewWithWriter(writer)
}

func NewWithWriter(writer MessageWriter) *EventBus {
	return &EventBus{
		subscribers: make(map[string][]subscription),
		writer:      writer,
		timeout:     5 * time.Second,
		log:         logger.New("events"),
	}
}

// Subscribe registers handler for channel and returns a function that removes it.
func (b *EventBus) Subscribe(channel string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscribers[channel] = append(b.subscribers[channel], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subscribers[channel]
		for i, sub := range subs {
			if sub.id == id {
				b.subscribers[channel] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.subscribers[channel]) == 0 {
			delete(b.subscribers, channel)
		}
	}
}

// Publish calls every subscriber of channel synchronously, then forwards the
// event to the broker. Subscribers are always notified even if forwarding fails.
func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	if event.Channel == "" {
		event.Channel = channel
	}

	b.mu.RLock()
	subs := append([]subscription(nil), b.subscribers[channel]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(event)
	}

	if b.writer == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "type", event.Type)
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	err = b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
			{Key: "channel", Value: []byte(channel)},
		},
	})
	if err != nil {
		return log.Err("failed to forward event", err, "type", event.Type, "id", event.ID)
	}

	log.Debug("Event forwarded", "type", event.Type, "id", event.ID)
	return nil
}

func (b *EventBus) Close() error {
	if b.writer == nil {
		return nil
	}
	if err := b.writer.Close(); err != nil {
		return b.log.Function("Close").Err("failed to close event writer", err)
	}
	return nil
}
