package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type Event map[string]any

func (e Event) Type() string {
	s, _ := e["type"].(string)
	return s
}

// Decode copies the event into a typed payload.
func (e Event) Decode(dst any) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

type HandlerFunc func(ctx context.Context, ev Event) error

// ErrMalformed marks payloads that can never be handled; they are not retried.
var ErrMalformed = errors.New("malformed event")

const (
	DefaultMaxAttempts = 5
	DefaultBackoff     = time.Second
	maxBackoff         = 30 * time.Second
)

// Reader is the part of *kafka.Reader the consumer uses.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r   Reader
	log *slog.Logger

	// MaxAttempts caps how often one message is handed to the handler before
	// it is logged as dropped and committed.
	MaxAttempts int
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
	})
	return NewReaderConsumer(r, log.With("topic", topic, "group", groupID))
}

func NewReaderConsumer(r Reader, log *slog.Logger) *Consumer {
	return &Consumer{
		r:           r,
		log:         log,
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     DefaultBackoff,
	}
}

// Run consumes until ctx is cancelled. An offset is committed only after the
// handler succeeded or the message ran out of attempts; a message whose
// retries are cut short by shutdown stays uncommitted and is redelivered.
func (c *Consumer) Run(ctx context.Context, h HandlerFunc) error {
	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("kafka fetch: %w", err)
		}

		if !c.handle(ctx, msg, h) {
			return nil
		}

		if err := c.r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.log.Error("event_commit_error", "offset", msg.Offset, "error", err)
		}
	}
}

// handle reports false when ctx ended before the message was settled.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message, h HandlerFunc) bool {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	delay := c.Backoff
	if delay <= 0 {
		delay = DefaultBackoff
	}

	for attempt := 1; ; attempt++ {
		err := Dispatch(ctx, msg.Value, h)
		if err == nil {
			return true
		}
		if errors.Is(err, ErrMalformed) || attempt >= attempts {
			c.log.Error("event_dropped", "offset", msg.Offset, "key", string(msg.Key), "attempts", attempt, "error", err)
			return true
		}
		c.log.Warn("event_handle_retry", "offset", msg.Offset, "key", string(msg.Key), "attempt", attempt, "error", err)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
		delay = min(delay*2, maxBackoff)
	}
}

func (c *Consumer) Close() error {
	return c.r.Close()
}

func Dispatch(ctx context.Context, raw []byte, h HandlerFunc) error {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return h(ctx, ev)
}
