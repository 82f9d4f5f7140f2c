package bridge

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-streaks/internal/adapter"
	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/logger"
	"github.com/feral-file/ff-streaks/internal/metrics"
)

// Config holds the configuration for the overlay bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	Topic          string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	// ConnectTimeout bounds the retries of the initial connection
	ConnectTimeout time.Duration
}

// Subject returns the subject overlay notifications of topic are published on
func Subject(topic string, eventType domain.EventType) string {
	return fmt.Sprintf("overlay.%s.%s", topic, eventType)
}

// Listener receives overlay notifications in delivery order
//
//go:generate mockgen -source=bridge.go -destination=../mocks/bridge.go -package=mocks -mock_names=Listener=MockOverlayListener,Bridge=MockBridge
type Listener interface {
	OutputAdmittedByTopic(ctx context.Context, outpoint domain.Outpoint, topic string, lockingScript []byte, satoshis uint64) error
	OutputSpent(ctx context.Context, outpoint domain.Outpoint, topic string) error
	OutputEvicted(ctx context.Context, outpoint domain.Outpoint) error
}

// Bridge defines the interface for the overlay bridge
type Bridge interface {
	// Run consumes notifications until ctx is done
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc       adapter.NatsConn
	js       adapter.JetStream
	listener Listener
	json     adapter.JSON
	config   Config
}

// NewBridge connects to NATS, retrying with exponential backoff until cfg.ConnectTimeout
func NewBridge(
	ctx context.Context,
	cfg Config,
	natsJS adapter.NatsJetStream,
	listener Listener,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	var (
		nc adapter.NatsConn
		js adapter.JetStream
	)
	operation := func() error {
		var err error
		nc, js, err = natsJS.Connect(cfg.URL, opts...)
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("Failed to connect to NATS, retrying",
			zap.Error(err),
			zap.Duration("retryIn", next))
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.ConnectTimeout
	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &bridge{
		nc:       nc,
		js:       js,
		listener: listener,
		json:     jsonAdapter,
		config:   cfg,
	}, nil
}

// Run applies notifications one at a time. The consumer allows a single
// unacknowledged message so the index sees them in delivery order.
func (b *bridge) Run(ctx context.Context) error {
	logger.Info("Starting overlay bridge",
		zap.String("stream", b.config.StreamName),
		zap.String("consumer", b.config.ConsumerName),
		zap.String("topic", b.config.Topic))

	err := b.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     b.config.StreamName,
		Subjects: []string{"overlay.>"},
	})
	if err != nil {
		return fmt.Errorf("failed to create/update stream: %w", err)
	}

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		MaxAckPending: 1,
		FilterSubject: fmt.Sprintf("overlay.%s.>", b.config.Topic),
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan adapter.Message)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		select {
		case msgChan <- msg:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming overlay notifications")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down overlay bridge")
			return ctx.Err()
		case msg := <-msgChan:
			b.handleMessage(ctx, msg)
		}
	}
}

// handleMessage applies a single notification and settles the message
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var deliveries uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		deliveries = metadata.NumDelivered
	}

	var event domain.OverlayEvent
	if err := b.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal overlay event"))
		b.settle(msg, "unknown", msg.Term, "term")
		return
	}
	if err := event.Validate(); err != nil {
		logger.Error(err, zap.String("message", "Invalid overlay event"))
		b.settle(msg, "unknown", msg.Term, "term")
		return
	}

	logger.Info("Received overlay event",
		zap.String("eventType", string(event.EventType)),
		zap.String("outpoint", event.Outpoint().String()),
		zap.String("topic", event.Topic),
		zap.Uint64("deliveryCount", deliveries))

	if err := b.dispatch(ctx, &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to apply overlay event"),
			zap.String("outpoint", event.Outpoint().String()))
		b.settle(msg, string(event.EventType), msg.Nak, "nak")
		return
	}

	b.settle(msg, string(event.EventType), msg.Ack, "ack")
}

func (b *bridge) dispatch(ctx context.Context, event *domain.OverlayEvent) error {
	outpoint := event.Outpoint()
	switch event.EventType {
	case domain.EventTypeAdmitted:
		script, err := hex.DecodeString(event.LockingScript)
		if err != nil {
			return fmt.Errorf("invalid locking script: %w", err)
		}
		return b.listener.OutputAdmittedByTopic(ctx, outpoint, event.Topic, script, event.Satoshis)
	case domain.EventTypeSpent:
		return b.listener.OutputSpent(ctx, outpoint, event.Topic)
	case domain.EventTypeEvicted:
		return b.listener.OutputEvicted(ctx, outpoint)
	default:
		return fmt.Errorf("unknown event type: %s", event.EventType)
	}
}

func (b *bridge) settle(msg adapter.Message, eventType string, fn func() error, result string) {
	metrics.BridgeMessages.WithLabelValues(eventType, result).Inc()
	if err := fn(); err != nil {
		logger.Error(err, zap.String("message", "Failed to "+result+" message"))
	}
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
