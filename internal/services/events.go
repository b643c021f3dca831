package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/worldcup-api/apiserver/internal/mq"
	"github.com/worldcup-api/apiserver/types"
)

// Audit event types.
const (
	EventUserRegistered = "auth.user_registered"
	EventUserLoggedIn   = "auth.user_logged_in"
	EventTokenRefreshed = "auth.token_refreshed"
)

// Publisher sends a payload to a named channel. *mq.MQ satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// AuthEvent is the JSON body of an audit event.
type AuthEvent struct {
	Type   string    `json:"type"`
	UserID int       `json:"userId"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

// EventEmitter publishes auth audit events. Failures are logged and never
// reach the caller. A nil *EventEmitter drops every event.
type EventEmitter struct {
	publisher Publisher
	channel   string
	logger    *slog.Logger
	now       func() time.Time
}

func NewEventEmitter(publisher Publisher, channel string, logger *slog.Logger) *EventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventEmitter{
		publisher: publisher,
		channel:   channel,
		logger:    logger,
		now:       time.Now,
	}
}

// Emit publishes an event of eventType about user.
func (e *EventEmitter) Emit(ctx context.Context, eventType string, user types.User) {
	if e == nil || e.publisher == nil {
		return
	}

	data, err := json.Marshal(AuthEvent{
		Type:   eventType,
		UserID: user.ID,
		Email:  user.Email,
		At:     e.now().UTC(),
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "encode auth event", "type", eventType, "error", err)
		return
	}

	attrs := map[string]string{
		"event_type":       eventType,
		mq.AttrContentType: "application/json",
	}
	if _, err := e.publisher.Publish(ctx, e.channel, data, attrs); err != nil {
		e.logger.WarnContext(ctx, "publish auth event", "type", eventType, "user_id", user.ID, "error", err)
	}
}
