package media

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidstream/video-platform-go/internal/db/models"
)

type fakeProvider struct {
	mu        sync.Mutex
	failStore map[string]bool
	failIDs   map[string]bool
	removed   []string
}

func (f *fakeProvider) Store(_ context.Context, folder, localPath string) (*models.StoredObject, error) {
	if f.failStore[localPath] {
		return nil, errors.New("upload refused")
	}
	return &models.StoredObject{URL: "https://cdn/" + folder + "/" + localPath, StorageID: folder + "/" + localPath}, nil
}

func (f *fakeProvider) Remove(_ context.Context, storageID string) error {
	if f.failIDs[storageID] {
		return errors.New("remove refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, storageID)
	return nil
}

func TestStoreAll(t *testing.T) {
	ctx := context.Background()

	t.Run("all succeed", func(t *testing.T) {
		p := &fakeProvider{}
		stored, err := StoreAll(ctx, p, Upload{"videos", "a.mp4"}, Upload{"thumbnails", "a.png"})
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, "videos/a.mp4", stored[0].StorageID)
		assert.Equal(t, "thumbnails/a.png", stored[1].StorageID)
	})

	t.Run("partial failure keeps the stored object", func(t *testing.T) {
		p := &fakeProvider{failStore: map[string]bool{"a.png": true}}
		stored, err := StoreAll(ctx, p, Upload{"videos", "a.mp4"}, Upload{"thumbnails", "a.png"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store thumbnails file")
		require.NotNil(t, stored[0])
		assert.Nil(t, stored[1])
		assert.Equal(t, []string{"videos/a.mp4"}, Stored(stored))
	})

	t.Run("both fail into one error", func(t *testing.T) {
		p := &fakeProvider{failStore: map[string]bool{"a.mp4": true, "a.png": true}}
		stored, err := StoreAll(ctx, p, Upload{"videos", "a.mp4"}, Upload{"thumbnails", "a.png"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store videos file")
		assert.Contains(t, err.Error(), "store thumbnails file")
		assert.Empty(t, Stored(stored))
	})
}

func TestRemoveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("removes everything and skips empty ids", func(t *testing.T) {
		p := &fakeProvider{}
		failed, err := RemoveAll(ctx, p, "videos/a", "", "thumbs/a")
		require.NoError(t, err)
		assert.Empty(t, failed)
		assert.ElementsMatch(t, []string{"videos/a", "thumbs/a"}, p.removed)
	})

	t.Run("reports failed ids", func(t *testing.T) {
		p := &fakeProvider{failIDs: map[string]bool{"thumbs/a": true}}
		failed, err := RemoveAll(ctx, p, "videos/a", "thumbs/a")
		require.Error(t, err)
		assert.Equal(t, []string{"thumbs/a"}, failed)
		assert.Equal(t, []string{"videos/a"}, p.removed)
	})

	t.Run("one failure does not stop the others", func(t *testing.T) {
		p := &fakeProvider{failIDs: map[string]bool{"videos/a": true, "thumbs/b": true}}
		failed, err := RemoveAll(ctx, p, "videos/a", "thumbs/a", "thumbs/b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "remove videos/a")
		assert.Contains(t, err.Error(), "remove thumbs/b")
		assert.Equal(t, []string{"videos/a", "thumbs/b"}, failed)
		assert.Equal(t, []string{"thumbs/a"}, p.removed)
	})
}
