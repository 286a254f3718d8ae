// AngelaMos | 2026
// kafka.go

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"

	"github.com/carterperez-dev/delivery-admin/internal/config"
	"github.com/carterperez-dev/delivery-admin/internal/core"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes Message values keyed by recipient. A breaker stops
// callers from waiting on a broker that is known to be down.
type KafkaNotifier struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
	links   linkBuilder
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

const breakerFailureThreshold = 5

func NewKafkaNotifier(
	cfg config.KafkaConfig,
	frontendURL string,
	logger *slog.Logger,
) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
	}
	return newKafkaNotifier(w, frontendURL, cfg.WriteTimeout, logger)
}

func newKafkaNotifier(
	w messageWriter,
	frontendURL string,
	timeout time.Duration,
	logger *slog.Logger,
) *KafkaNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "notify-kafka",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &KafkaNotifier{
		writer:  w,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		links:   newLinkBuilder(frontendURL),
		timeout: timeout,
		now:     time.Now,
		logger:  logger,
	}
}

func (n *KafkaNotifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	return n.publish(ctx, KindVerifyEmail, email, token)
}

func (n *KafkaNotifier) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	return n.publish(ctx, KindPasswordReset, email, token)
}

func (n *KafkaNotifier) publish(ctx context.Context, kind, email, token string) error {
	payload, err := json.Marshal(Message{
		Kind:     kind,
		Email:    email,
		Link:     n.links.build(kind, token),
		IssuedAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s notification: %w", kind, err)
	}

	_, err = n.breaker.Execute(func() (struct{}, error) {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		return struct{}{}, n.writer.WriteMessages(writeCtx, kafka.Message{
			Key:   []byte(email),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "kind", Value: []byte(kind)},
			},
		})
	})
	if err != nil {
		core.NotificationsSent.WithLabelValues(kind, "failed").Inc()
		return fmt.Errorf("publish %s notification: %w", kind, err)
	}

	core.NotificationsSent.WithLabelValues(kind, "sent").Inc()
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
