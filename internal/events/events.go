// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Routing keys of published events.
const (
	VideoPublished    = "video.published"
	VideoDeleted      = "video.deleted"
	VideoViewed       = "video.viewed"
	VideoLiked        = "video.liked"
	ChannelSubscribed = "channel.subscribed"
	UserRegistered    = "user.registered"
)

// Event is the envelope written to the exchange.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// NewEvent wraps data in an envelope of the given type.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher sends events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }

type VideoPublishedData struct {
	VideoID uuid.UUID `json:"videoId"`
	OwnerID uuid.UUID `json:"ownerId"`
	Title   string    `json:"title"`
}

type VideoDeletedData struct {
	VideoID         uuid.UUID `json:"videoId"`
	OwnerID         uuid.UUID `json:"ownerId"`
	LikesRemoved    int64     `json:"likesRemoved"`
	CommentsRemoved int64     `json:"commentsRemoved"`
	Incomplete      bool      `json:"incomplete"`
}

type VideoViewedData struct {
	VideoID uuid.UUID `json:"videoId"`
	UserID  uuid.UUID `json:"userId"`
}

type VideoLikedData struct {
	VideoID uuid.UUID `json:"videoId"`
	UserID  uuid.UUID `json:"userId"`
	Liked   bool      `json:"liked"`
}

type ChannelSubscribedData struct {
	ChannelID    uuid.UUID `json:"channelId"`
	SubscriberID uuid.UUID `json:"subscriberId"`
	Subscribed   bool      `json:"subscribed"`
}

type UserRegisteredData struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
}
