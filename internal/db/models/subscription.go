package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription means SubscriberID follows the channel of ChannelID.
type Subscription struct {
	ID           uuid.UUID `db:"id" json:"id"`
	SubscriberID uuid.UUID `db:"subscriber_id" json:"subscriber"`
	ChannelID    uuid.UUID `db:"channel_id" json:"channel"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// NewSubscription creates a Subscription of subscriberID to channelID.
func NewSubscription(subscriberID, channelID uuid.UUID) *Subscription {
	return &Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
	}
}

// IsSelf reports whether the subscription targets the subscriber's own channel.
func (s *Subscription) IsSelf() bool {
	return s.SubscriberID == s.ChannelID
}
