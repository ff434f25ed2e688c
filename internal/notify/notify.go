package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/log"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const ChannelNotifications = "storefront:notifications"

// Notifier emits human-readable events. The storefront does not own
// delivery; emission failures are swallowed.
type Notifier interface {
	Notify(c context.Context, message string, kind Kind)
}

type event struct {
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
}

// RedisNotifier publishes events on a redis channel for whatever delivery
// service is subscribed.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client, channel: ChannelNotifications}
}

func (n *RedisNotifier) Notify(c context.Context, message string, kind Kind) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisNotifier Notify").
		Str("channel", n.channel).
		Logger()

	payload, err := json.Marshal(event{Message: message, Kind: kind, At: time.Now()})
	if err != nil {
		err = fmt.Errorf("failed marshaling notification with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return
	}

	err = n.client.Publish(c, n.channel, payload).Err()
	if err != nil {
		err = fmt.Errorf("failed publishing notification with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	}
}

// LogNotifier writes events straight to the log. Used in tests and when
// running without redis.
type LogNotifier struct{}

func (LogNotifier) Notify(c context.Context, message string, kind Kind) {
	zerolog.Ctx(c).
		Info().
		Str(log.KeyTag, "LogNotifier Notify").
		Str("kind", string(kind)).
		Msg(message)
}
