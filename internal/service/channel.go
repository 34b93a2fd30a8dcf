package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/events"
	"github.com/vidstream/video-platform-go/internal/metrics"
	"github.com/vidstream/video-platform-go/internal/viewer"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

const channelNotFound = "channel does not exist"

// ChannelProfile is a user's public channel page.
type ChannelProfile struct {
	ID                        uuid.UUID `json:"id"`
	FullName                  string    `json:"fullName"`
	Username                  string    `json:"username"`
	AvatarURL                 string    `json:"avatar"`
	CoverImageURL             string    `json:"coverImage"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
}

// AssembleChannelProfile projects a joined channel row for v.
func AssembleChannelProfile(row *models.ChannelProfileRow, v *viewer.Viewer) (*ChannelProfile, error) {
	if row == nil {
		return nil, NotFound(channelNotFound)
	}
	return &ChannelProfile{
		ID:                        row.ID,
		FullName:                  row.FullName,
		Username:                  row.Username,
		AvatarURL:                 row.AvatarURL,
		CoverImageURL:             row.CoverImageURL,
		SubscribersCount:          row.SubscribersCount,
		ChannelsSubscribedToCount: row.SubscribedToCount,
		IsSubscribed:              v != nil && row.ViewerSubscribed,
	}, nil
}

// ChannelService serves channel profiles and the subscription graph.
type ChannelService struct {
	deps Dependencies
}

// NewChannelService creates a new ChannelService.
func NewChannelService(deps Dependencies) *ChannelService {
	return &ChannelService{deps: deps}
}

// GetChannelProfile looks a channel up by username, ignoring case.
func (s *ChannelService) GetChannelProfile(ctx context.Context, username string, v *viewer.Viewer) (*ChannelProfile, error) {
	defer metrics.ObserveAssembly("channel_profile", time.Now())

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, Validation("username is missing")
	}

	row, err := s.deps.Users.GetChannelProfile(ctx, models.NormalizeUsername(username), v.IDPtr())
	if err != nil {
		return nil, storeError(err, channelNotFound)
	}

	return AssembleChannelProfile(row, v)
}

// ToggleSubscription subscribes v to the channel, or unsubscribes when v
// already follows it. It reports whether v is subscribed afterwards.
func (s *ChannelService) ToggleSubscription(ctx context.Context, v *viewer.Viewer, rawChannelID string) (bool, error) {
	if err := requireViewer(v); err != nil {
		return false, err
	}
	channelID, verr := parseID("channelId", rawChannelID)
	if verr != nil {
		return false, verr
	}
	if v.Is(channelID) {
		return false, Validation("cannot subscribe to your own channel")
	}
	if _, err := s.deps.Users.GetByID(ctx, channelID); err != nil {
		return false, storeError(err, channelNotFound)
	}

	removed, err := s.deps.Subscriptions.Delete(ctx, v.ID, channelID)
	if err != nil {
		return false, storeError(err, channelNotFound)
	}

	subscribed := !removed
	if subscribed {
		err := s.deps.Subscriptions.Create(ctx, models.NewSubscription(v.ID, channelID))
		switch {
		case db.IsDuplicateKey(err):
			// A concurrent toggle from the same viewer got there first.
		case db.IsForeignKeyViolation(err):
			return false, NotFound(channelNotFound)
		case db.IsCheckViolation(err):
			return false, Validation("cannot subscribe to your own channel")
		case err != nil:
			return false, storeError(err, channelNotFound)
		}
	}

	logger.Log.Info("Subscription toggled",
		zap.String("subscriberId", v.ID.String()),
		zap.String("channelId", channelID.String()),
		zap.Bool("subscribed", subscribed),
	)
	s.deps.publish(ctx, events.ChannelSubscribed, events.ChannelSubscribedData{
		ChannelID:    channelID,
		SubscriberID: v.ID,
		Subscribed:   subscribed,
	})

	return subscribed, nil
}

// ListSubscribers pages through the users subscribed to a channel.
func (s *ChannelService) ListSubscribers(ctx context.Context, rawChannelID string, page, limit int) (*UserPage, error) {
	channelID, verr := parseID("channelId", rawChannelID)
	if verr != nil {
		return nil, verr
	}
	return s.listUsers(ctx, channelID, page, limit, s.deps.Subscriptions.ListSubscribers)
}

// ListSubscribedChannels pages through the channels a user follows.
func (s *ChannelService) ListSubscribedChannels(ctx context.Context, rawSubscriberID string, page, limit int) (*UserPage, error) {
	subscriberID, verr := parseID("subscriberId", rawSubscriberID)
	if verr != nil {
		return nil, verr
	}
	return s.listUsers(ctx, subscriberID, page, limit, s.deps.Subscriptions.ListSubscribedChannels)
}

type userLister func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.UserSummary, int, error)

func (s *ChannelService) listUsers(ctx context.Context, userID uuid.UUID, page, limit int, list userLister) (*UserPage, error) {
	p, perr := s.deps.page(page, limit)
	if perr != nil {
		return nil, perr
	}
	if _, err := s.deps.Users.GetByID(ctx, userID); err != nil {
		return nil, storeError(err, channelNotFound)
	}

	users, total, err := list(ctx, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, storeError(err, channelNotFound)
	}
	if users == nil {
		users = []*models.UserSummary{}
	}

	return &UserPage{Users: users, Pagination: newPagination(p, total)}, nil
}
