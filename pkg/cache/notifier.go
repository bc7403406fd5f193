package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"places-autocomplete/internal/models"
	"places-autocomplete/pkg/logger"
	"places-autocomplete/pkg/metrics"
)

// Notifier publishes control output notifications over Redis pub/sub.
type Notifier struct {
	client CacheClient
}

func NewNotifier(client CacheClient) *Notifier {
	return &Notifier{client: client}
}

// Publish sends the notification on the control's outputs channel.
func (n *Notifier) Publish(ctx context.Context, notification models.OutputNotification) error {
	channel := ControlOutputsChannel(notification.ControlID)

	data, err := json.Marshal(notification)
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("publish_marshal").Inc()
		return NewCacheError("marshal", channel, err, false)
	}

	start := time.Now()
	err = n.client.Publish(ctx, channel, data).Err()
	metrics.ObserveRedis("publish", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to publish outputs: channel=%s, error=%v", channel, err)
		return NewCacheError("publish", channel, err, true)
	}
	return nil
}

// Subscription delivers decoded notifications for one control until closed.
type Subscription struct {
	C <-chan models.OutputNotification

	closeOnce sync.Once
	closeFn   func() error
}

// Close stops delivery and releases the Redis connection.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.closeFn()
	})
	return err
}

// Subscribe listens on the control's outputs channel. The subscription is
// confirmed before Subscribe returns, so no later Publish is missed.
func (n *Notifier) Subscribe(ctx context.Context, controlID string) (*Subscription, error) {
	channel := ControlOutputsChannel(controlID)

	start := time.Now()
	pubsub := n.client.Subscribe(ctx, channel)
	_, err := pubsub.Receive(ctx)
	metrics.ObserveRedis("subscribe", start, err)
	if err != nil {
		pubsub.Close()
		return nil, NewCacheError("subscribe", channel, err, true)
	}

	out := make(chan models.OutputNotification)
	messages := pubsub.Channel()
	done := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var notification models.OutputNotification
				if err := json.Unmarshal([]byte(msg.Payload), &notification); err != nil {
					metrics.RedisErrorsTotal.WithLabelValues("subscribe_unmarshal").Inc()
					logger.GlobalLogger.Errorf("dropping malformed notification: channel=%s, error=%v", channel, err)
					continue
				}
				select {
				case out <- notification:
				case <-done:
					return
				}
			}
		}
	}()

	return &Subscription{
		C: out,
		closeFn: func() error {
			close(done)
			return pubsub.Close()
		},
	}, nil
}
