package models

import "github.com/google/uuid"

// ChannelProfileRow is a user joined with both sides of the subscription graph.
type ChannelProfileRow struct {
	ID                uuid.UUID
	Username          string
	FullName          string
	AvatarURL         string
	CoverImageURL     string
	SubscribersCount  int64
	SubscribedToCount int64
	ViewerSubscribed  bool
}
