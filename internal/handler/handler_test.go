package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dbmodels "github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/service"
	"github.com/vidstream/video-platform-go/internal/viewer"
	"github.com/vidstream/video-platform-go/pkg/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type mockVideoService struct {
	mock.Mock
}

func (m *mockVideoService) GetVideoDetail(ctx context.Context, rawID string, v *viewer.Viewer) (*service.VideoDetail, error) {
	args := m.Called(ctx, rawID, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VideoDetail), args.Error(1)
}

func (m *mockVideoService) PublishVideo(ctx context.Context, v *viewer.Viewer, in service.PublishVideoInput) (*dbmodels.Video, error) {
	args := m.Called(ctx, v, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Video), args.Error(1)
}

func (m *mockVideoService) UpdateVideo(ctx context.Context, v *viewer.Viewer, rawID string, in service.UpdateVideoInput) (*dbmodels.Video, error) {
	args := m.Called(ctx, v, rawID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Video), args.Error(1)
}

func (m *mockVideoService) DeleteVideo(ctx context.Context, v *viewer.Viewer, rawID string) (*service.DeleteReport, error) {
	args := m.Called(ctx, v, rawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteReport), args.Error(1)
}

func (m *mockVideoService) TogglePublishStatus(ctx context.Context, v *viewer.Viewer, rawID string) (*dbmodels.Video, error) {
	args := m.Called(ctx, v, rawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Video), args.Error(1)
}

type mockFeedService struct {
	mock.Mock
}

func (m *mockFeedService) ListVideos(ctx context.Context, q service.ListVideosQuery) (*service.VideoPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VideoPage), args.Error(1)
}

type mockHistoryService struct {
	mock.Mock
}

func (m *mockHistoryService) RecordView(ctx context.Context, v *viewer.Viewer, rawVideoID string) (*dbmodels.WatchHistoryEntry, error) {
	args := m.Called(ctx, v, rawVideoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.WatchHistoryEntry), args.Error(1)
}

func (m *mockHistoryService) GetWatchHistory(ctx context.Context, v *viewer.Viewer, page, limit int) (*service.WatchHistoryPage, error) {
	args := m.Called(ctx, v, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WatchHistoryPage), args.Error(1)
}

type mockLikeService struct {
	mock.Mock
}

func (m *mockLikeService) ToggleVideoLike(ctx context.Context, v *viewer.Viewer, rawVideoID string) (bool, error) {
	args := m.Called(ctx, v, rawVideoID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeService) ListLikedVideos(ctx context.Context, v *viewer.Viewer, page, limit int) (*service.VideoPage, error) {
	args := m.Called(ctx, v, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VideoPage), args.Error(1)
}

type mockChannelService struct {
	mock.Mock
}

func (m *mockChannelService) GetChannelProfile(ctx context.Context, username string, v *viewer.Viewer) (*service.ChannelProfile, error) {
	args := m.Called(ctx, username, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChannelProfile), args.Error(1)
}

func (m *mockChannelService) ToggleSubscription(ctx context.Context, v *viewer.Viewer, rawChannelID string) (bool, error) {
	args := m.Called(ctx, v, rawChannelID)
	return args.Bool(0), args.Error(1)
}

func (m *mockChannelService) ListSubscribers(ctx context.Context, rawChannelID string, page, limit int) (*service.UserPage, error) {
	args := m.Called(ctx, rawChannelID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserPage), args.Error(1)
}

func (m *mockChannelService) ListSubscribedChannels(ctx context.Context, rawSubscriberID string, page, limit int) (*service.UserPage, error) {
	args := m.Called(ctx, rawSubscriberID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserPage), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, in service.RegisterInput) (*dbmodels.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.User), args.Error(1)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeBroker struct{ healthy bool }

func (f fakeBroker) IsHealthy() bool { return f.healthy }

// testServer wires every handler to mocks. Requests carrying the
// X-Test-User header are treated as coming from that user.
type testServer struct {
	videos   *mockVideoService
	feed     *mockFeedService
	history  *mockHistoryService
	likes    *mockLikeService
	channels *mockChannelService
	users    *mockUserService
	engine   *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		videos:   &mockVideoService{},
		feed:     &mockFeedService{},
		history:  &mockHistoryService{},
		likes:    &mockLikeService{},
		channels: &mockChannelService{},
		users:    &mockUserService{},
	}
	uploads := NewUploads(t.TempDir())

	testViewer := func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User"); raw != "" {
			v := &viewer.Viewer{ID: uuid.MustParse(raw)}
			c.Request = c.Request.WithContext(viewer.NewContext(c.Request.Context(), v))
		}
		c.Next()
	}

	ts.engine = NewRouter(Router{
		Videos:        NewVideoHandler(ts.videos, ts.feed, ts.history, uploads),
		Social:        NewSocialHandler(ts.likes, ts.channels),
		Users:         NewUserHandler(ts.users, uploads),
		Health:        NewHealthHandler(fakePinger{}, nil),
		Middleware:    []gin.HandlerFunc{testViewer},
		MaxUploadSize: 1 << 20,
	})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) assertExpectations(t *testing.T) {
	t.Helper()
	ts.videos.AssertExpectations(t)
	ts.feed.AssertExpectations(t)
	ts.history.AssertExpectations(t)
	ts.likes.AssertExpectations(t)
	ts.channels.AssertExpectations(t)
	ts.users.AssertExpectations(t)
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
