package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vidstream/video-platform-go/internal/db"
	"github.com/vidstream/video-platform-go/internal/events"
	"github.com/vidstream/video-platform-go/internal/viewer"
)

func TestHistoryService_RecordView(t *testing.T) {
	ctx := context.Background()
	v := &viewer.Viewer{ID: uuid.New()}

	t.Run("first view counts and repeat view refreshes", func(t *testing.T) {
		td, deps := newTestDeps()
		video := publishedVideo(uuid.New())
		td.videos.On("GetByID", mock.Anything, video.ID).Return(video, nil)

		now := fixedNow
		deps.Now = func() time.Time { return now }
		svc := NewHistoryService(deps)

		entry, err := svc.RecordView(ctx, v, video.ID.String())
		require.NoError(t, err)
		assert.Equal(t, fixedNow, entry.WatchedAt)

		now = fixedNow.Add(time.Hour)
		entry, err = svc.RecordView(ctx, v, video.ID.String())
		require.NoError(t, err)
		assert.Equal(t, fixedNow.Add(time.Hour), entry.WatchedAt)

		assert.Equal(t, int64(1), td.history.viewCount(video.ID))
		assert.Equal(t, 1, td.history.entryCount())
		assert.Equal(t, []string{events.VideoViewed}, td.events.types())
	})

	t.Run("concurrent views by one viewer count once", func(t *testing.T) {
		td, deps := newTestDeps()
		video := publishedVideo(uuid.New())
		td.videos.On("GetByID", mock.Anything, video.ID).Return(video, nil)
		svc := NewHistoryService(deps)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.RecordView(ctx, v, video.ID.String())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), td.history.viewCount(video.ID))
	})

	t.Run("guest is unauthorized", func(t *testing.T) {
		td, deps := newTestDeps()
		_, err := NewHistoryService(deps).RecordView(ctx, nil, uuid.NewString())
		assert.Equal(t, KindUnauthorized, KindOf(err))
		td.assertExpectations(t)
	})

	t.Run("unknown video", func(t *testing.T) {
		td, deps := newTestDeps()
		td.videos.On("GetByID", mock.Anything, mock.Anything).Return(nil, db.ErrNotFound)

		_, err := NewHistoryService(deps).RecordView(ctx, v, uuid.NewString())
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.Equal(t, 0, td.history.entryCount())
	})

	t.Run("unpublished video of another owner", func(t *testing.T) {
		td, deps := newTestDeps()
		video := publishedVideo(uuid.New())
		video.IsPublished = false
		td.videos.On("GetByID", mock.Anything, video.ID).Return(video, nil)

		_, err := NewHistoryService(deps).RecordView(ctx, v, video.ID.String())
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("store failure", func(t *testing.T) {
		td, deps := newTestDeps()
		video := publishedVideo(uuid.New())
		td.videos.On("GetByID", mock.Anything, video.ID).Return(video, nil)
		td.history.err = errors.New("serialization failure")

		_, err := NewHistoryService(deps).RecordView(ctx, v, video.ID.String())
		assert.Equal(t, KindUpstream, KindOf(err))
	})
}

func TestHistoryService_IdempotenceProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("views equal distinct viewers however often they watch", prop.ForAll(
		func(watches []int) bool {
			td, deps := newTestDeps()
			video := publishedVideo(uuid.New())
			td.videos.On("GetByID", mock.Anything, video.ID).Return(video, nil)
			svc := NewHistoryService(deps)

			viewers := make([]*viewer.Viewer, 5)
			for i := range viewers {
				viewers[i] = &viewer.Viewer{ID: uuid.New()}
			}

			distinct := make(map[int]bool)
			for _, w := range watches {
				if _, err := svc.RecordView(context.Background(), viewers[w], video.ID.String()); err != nil {
					return false
				}
				distinct[w] = true
			}

			return td.history.viewCount(video.ID) == int64(len(distinct)) &&
				td.history.entryCount() == len(distinct)
		},
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.TestingRun(t)
}

func TestHistoryService_GetWatchHistory(t *testing.T) {
	ctx := context.Background()
	v := &viewer.Viewer{ID: uuid.New()}
	td, deps := newTestDeps()

	for range 3 {
		video := publishedVideo(uuid.New())
		_, _, err := td.history.Record(ctx, v.ID, video.ID, fixedNow)
		require.NoError(t, err)
	}

	page, err := NewHistoryService(deps).GetWatchHistory(ctx, v, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Entries, 2)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasNextPage)

	page, err = NewHistoryService(deps).GetWatchHistory(ctx, v, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Entries)

	_, err = NewHistoryService(deps).GetWatchHistory(ctx, nil, 1, 2)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}
