package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dbmodels "github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/models"
	"github.com/vidstream/video-platform-go/internal/service"
	"github.com/vidstream/video-platform-go/internal/viewer"
)

func TestVideoHandler_GetVideo(t *testing.T) {
	t.Run("guest gets the detail", func(t *testing.T) {
		ts := newTestServer(t)
		videoID := uuid.New()
		ts.videos.On("GetVideoDetail", mock.Anything, videoID.String(), (*viewer.Viewer)(nil)).Return(&service.VideoDetail{
			ID:        videoID,
			VideoURL:  "https://media.test/videos/a.mp4",
			Title:     "Intro",
			CreatedAt: testTime,
			Owner:     &service.VideoOwner{Username: "alice", SubscribersCount: 2},
		}, nil)

		w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		decode(t, w, &body)
		assert.Equal(t, "https://media.test/videos/a.mp4", body["videoFile"])
		assert.Equal(t, false, body["isLiked"])
		owner := body["owner"].(map[string]any)
		assert.Equal(t, "alice", owner["username"])
		assert.Equal(t, false, owner["isSubscribed"])
		ts.assertExpectations(t)
	})

	t.Run("viewer is passed through", func(t *testing.T) {
		ts := newTestServer(t)
		userID := uuid.New()
		ts.videos.On("GetVideoDetail", mock.Anything, "abc", mock.MatchedBy(func(v *viewer.Viewer) bool {
			return v != nil && v.ID == userID
		})).Return(nil, service.Validation("videoId must be a valid id"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/abc", nil)
		req.Header.Set("X-Test-User", userID.String())
		w := ts.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body models.ErrorResponse
		decode(t, w, &body)
		assert.Equal(t, 400, body.Status)
		assert.Equal(t, "videoId must be a valid id", body.Message)
		assert.Equal(t, "/api/v1/videos/abc", body.Path)
		ts.assertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		ts := newTestServer(t)
		ts.videos.On("GetVideoDetail", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.NotFound("video not found"))

		w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "video not found")
	})
}

func TestVideoHandler_ListVideos(t *testing.T) {
	t.Run("binds the query string", func(t *testing.T) {
		ts := newTestServer(t)
		ownerID := uuid.NewString()
		ts.feed.On("ListVideos", mock.Anything, service.ListVideosQuery{
			Page:     2,
			Limit:    5,
			Query:    "cats",
			OwnerID:  ownerID,
			SortBy:   "views",
			SortType: "desc",
		}).Return(&service.VideoPage{
			Videos:     []*dbmodels.VideoListItem{},
			Pagination: service.Pagination{Total: 6, Page: 2, Limit: 5, TotalPages: 2, HasPrevPage: true},
		}, nil)

		w := ts.do(httptest.NewRequest(http.MethodGet,
			"/api/v1/videos?page=2&limit=5&query=cats&userId="+ownerID+"&sortBy=views&sortType=desc", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		decode(t, w, &body)
		assert.Equal(t, float64(6), body["total"])
		assert.Equal(t, float64(2), body["totalPages"])
		assert.Equal(t, []any{}, body["videos"])
		ts.assertExpectations(t)
	})

	t.Run("non numeric page", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos?page=two", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		ts.assertExpectations(t)
	})

	t.Run("explicit zero page or limit is rejected", func(t *testing.T) {
		for _, query := range []string{"page=0", "limit=0", "page=0&limit=10"} {
			ts := newTestServer(t)
			w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos?"+query, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
			ts.feed.AssertNotCalled(t, "ListVideos", mock.Anything, mock.Anything)
		}
	})

	t.Run("absent page falls back to defaults", func(t *testing.T) {
		ts := newTestServer(t)
		ts.feed.On("ListVideos", mock.Anything, service.ListVideosQuery{}).
			Return(&service.VideoPage{Videos: []*dbmodels.VideoListItem{}}, nil)

		w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		ts.assertExpectations(t)
	})
}

func TestVideoHandler_PublishVideo(t *testing.T) {
	userID := uuid.New()
	fields := map[string]string{"title": "Intro", "description": "First upload", "duration": "12.5"}

	t.Run("hands saved files to the service and removes them afterwards", func(t *testing.T) {
		ts := newTestServer(t)
		var seen service.PublishVideoInput
		ts.videos.On("PublishVideo", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.PublishVideoInput) bool {
			_, errVideo := os.Stat(in.VideoFilePath)
			_, errThumb := os.Stat(in.ThumbnailFilePath)
			return errVideo == nil && errThumb == nil
		})).Run(func(args mock.Arguments) {
			seen = args.Get(2).(service.PublishVideoInput)
		}).Return(&dbmodels.Video{ID: uuid.New(), OwnerID: userID, Title: "Intro", IsPublished: true}, nil)

		req := multipartRequest(t, http.MethodPost, "/api/v1/videos", fields,
			formFile{"videoFile", "clip.MP4", []byte("video bytes")},
			formFile{"thumbnail", "clip.png", []byte("png bytes")},
		)
		req.Header.Set("X-Test-User", userID.String())
		w := ts.do(req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Intro", seen.Title)
		assert.Equal(t, 12.5, seen.Duration)
		assert.Equal(t, ".mp4", seen.VideoFilePath[len(seen.VideoFilePath)-4:])

		_, err := os.Stat(seen.VideoFilePath)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(seen.ThumbnailFilePath)
		assert.True(t, os.IsNotExist(err))
		ts.assertExpectations(t)
	})

	t.Run("missing thumbnail", func(t *testing.T) {
		ts := newTestServer(t)
		req := multipartRequest(t, http.MethodPost, "/api/v1/videos", fields,
			formFile{"videoFile", "clip.mp4", []byte("video bytes")},
		)
		w := ts.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "thumbnail file is required")
		ts.assertExpectations(t)
	})

	t.Run("missing title", func(t *testing.T) {
		ts := newTestServer(t)
		req := multipartRequest(t, http.MethodPost, "/api/v1/videos", map[string]string{"description": "x"})
		w := ts.do(req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.videos.On("PublishVideo", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.Upstream("failed to upload media", errors.New("s3 down")))

		req := multipartRequest(t, http.MethodPost, "/api/v1/videos", fields,
			formFile{"videoFile", "clip.mp4", []byte("v")},
			formFile{"thumbnail", "clip.png", []byte("t")},
		)
		w := ts.do(req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "failed to upload media")
		assert.NotContains(t, w.Body.String(), "s3 down")
	})
}

func TestVideoHandler_UpdateVideo(t *testing.T) {
	ts := newTestServer(t)
	videoID := uuid.NewString()
	ts.videos.On("UpdateVideo", mock.Anything, mock.Anything, videoID, service.UpdateVideoInput{
		Title:       "Renamed",
		Description: "Desc",
	}).Return(nil, service.Forbidden("only the owner can modify this video"))

	req := multipartRequest(t, http.MethodPatch, "/api/v1/videos/"+videoID,
		map[string]string{"title": "Renamed", "description": "Desc"})
	w := ts.do(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	ts.assertExpectations(t)
}

func TestVideoHandler_DeleteVideo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t)
		videoID := uuid.New()
		ts.videos.On("DeleteVideo", mock.Anything, mock.Anything, videoID.String()).
			Return(&service.DeleteReport{VideoID: videoID, LikesRemoved: 2, CommentsRemoved: 1}, nil)

		w := ts.do(httptest.NewRequest(http.MethodDelete, "/api/v1/videos/"+videoID.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"videoId":"`+videoID.String()+`","likesRemoved":2,"commentsRemoved":1}`, w.Body.String())
	})

	t.Run("incomplete cleanup", func(t *testing.T) {
		ts := newTestServer(t)
		videoID := uuid.New()
		ts.videos.On("DeleteVideo", mock.Anything, mock.Anything, videoID.String()).
			Return(&service.DeleteReport{VideoID: videoID, FailedMedia: []string{"thumbnails/t.png"}},
				service.Upstream("video deleted but dependent cleanup failed", errors.New("remove refused")))

		w := ts.do(httptest.NewRequest(http.MethodDelete, "/api/v1/videos/"+videoID.String(), nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestVideoHandler_TogglePublishAndViews(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	videoID := uuid.New()

	ts.videos.On("TogglePublishStatus", mock.Anything, mock.Anything, videoID.String()).
		Return(&dbmodels.Video{ID: videoID, IsPublished: false}, nil)
	ts.history.On("RecordView", mock.Anything, mock.Anything, videoID.String()).
		Return(&dbmodels.WatchHistoryEntry{UserID: userID, VideoID: videoID, WatchedAt: testTime}, nil)
	ts.history.On("GetWatchHistory", mock.Anything, (*viewer.Viewer)(nil), 0, 0).
		Return(nil, service.Unauthorized("authentication required"))

	w := ts.do(httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+videoID.String()+"/publish", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isPublished":false`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/"+videoID.String()+"/views", nil)
	req.Header.Set("X-Test-User", userID.String())
	w = ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	ts.assertExpectations(t)
}
