package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dbmodels "github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/service"
)

func TestSocialHandler_ToggleVideoLike(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	videoID := uuid.NewString()
	ts.likes.On("ToggleVideoLike", mock.Anything, mock.Anything, videoID).Return(true, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/videos/"+videoID, nil)
	req.Header.Set("X-Test-User", userID.String())
	w := ts.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isLiked":true}`, w.Body.String())
	ts.assertExpectations(t)
}

func TestSocialHandler_LikedVideos(t *testing.T) {
	ts := newTestServer(t)
	ts.likes.On("ListLikedVideos", mock.Anything, mock.Anything, 1, 20).
		Return(&service.VideoPage{Videos: []*dbmodels.VideoListItem{}}, nil)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos?page=1&limit=20", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	ts.assertExpectations(t)
}

func TestSocialHandler_ChannelProfile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ts := newTestServer(t)
		ts.channels.On("GetChannelProfile", mock.Anything, "Alice", mock.Anything).Return(&service.ChannelProfile{
			Username:                  "alice",
			FullName:                  "Alice Liddell",
			SubscribersCount:          4,
			ChannelsSubscribedToCount: 1,
		}, nil)

		w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/channels/Alice", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		decode(t, w, &body)
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, float64(4), body["subscribersCount"])
		assert.Equal(t, float64(1), body["channelsSubscribedToCount"])
		assert.Equal(t, false, body["isSubscribed"])
	})

	t.Run("missing", func(t *testing.T) {
		ts := newTestServer(t)
		ts.channels.On("GetChannelProfile", mock.Anything, "ghost", mock.Anything).
			Return(nil, service.NotFound("channel does not exist"))

		w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/channels/ghost", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSocialHandler_Subscriptions(t *testing.T) {
	ts := newTestServer(t)
	channelID := uuid.NewString()
	userID := uuid.NewString()

	ts.channels.On("ToggleSubscription", mock.Anything, mock.Anything, channelID).Return(false, nil)
	ts.channels.On("ListSubscribers", mock.Anything, channelID, 3, 0).
		Return(&service.UserPage{Users: []*dbmodels.UserSummary{{Username: "bob"}}}, nil)
	ts.channels.On("ListSubscribedChannels", mock.Anything, userID, 0, 0).
		Return(nil, service.Validation("subscriberId must be a valid id"))

	w := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/"+channelID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed":false}`, w.Body.String())

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/"+channelID+"/subscribers?page=3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/subscriptions", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.assertExpectations(t)
}
