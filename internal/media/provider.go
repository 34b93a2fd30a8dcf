// Package media stores and removes uploaded files through an object store.
package media

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vidstream/video-platform-go/internal/db/models"
	"github.com/vidstream/video-platform-go/internal/metrics"
)

// Provider is the external media host. Neither call is idempotent on partial
// failure and neither is retried here.
type Provider interface {
	// Store uploads the file at localPath under folder and returns its public
	// URL and storage identifier.
	Store(ctx context.Context, folder, localPath string) (*models.StoredObject, error)

	// Remove deletes a previously stored object.
	Remove(ctx context.Context, storageID string) error
}

// Upload is one file to store.
type Upload struct {
	Folder    string
	LocalPath string
}

// StoreAll stores every upload concurrently and waits for all of them. The
// returned slice is index-aligned with uploads; entries for failed uploads are
// nil. When any upload fails the error joins every failure, and the non-nil
// entries are objects that were stored anyway.
func StoreAll(ctx context.Context, p Provider, uploads ...Upload) ([]*models.StoredObject, error) {
	stored := make([]*models.StoredObject, len(uploads))
	errs := make([]error, len(uploads))

	var g errgroup.Group
	for i, u := range uploads {
		g.Go(func() error {
			obj, err := p.Store(ctx, u.Folder, u.LocalPath)
			metrics.MediaOperations.WithLabelValues("store", metrics.Result(err)).Inc()
			if err != nil {
				errs[i] = fmt.Errorf("store %s file: %w", u.Folder, err)
				return errs[i]
			}
			stored[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err == nil {
		return stored, nil
	}

	return stored, errors.Join(errs...)
}

// RemoveAll removes every storage identifier concurrently and returns the
// identifiers that could not be removed along with the joined error. Empty
// identifiers are skipped.
func RemoveAll(ctx context.Context, p Provider, storageIDs ...string) ([]string, error) {
	errs := make([]error, len(storageIDs))

	var g errgroup.Group
	for i, id := range storageIDs {
		if id == "" {
			continue
		}
		g.Go(func() error {
			err := p.Remove(ctx, id)
			metrics.MediaOperations.WithLabelValues("remove", metrics.Result(err)).Inc()
			if err != nil {
				errs[i] = fmt.Errorf("remove %s: %w", id, err)
			}
			return errs[i]
		})
	}
	if err := g.Wait(); err == nil {
		return nil, nil
	}

	var failed []string
	for i, err := range errs {
		if err != nil {
			failed = append(failed, storageIDs[i])
		}
	}

	return failed, errors.Join(errs...)
}

// Stored returns the storage identifiers of the non-nil objects.
func Stored(objects []*models.StoredObject) []string {
	var ids []string
	for _, obj := range objects {
		if obj != nil {
			ids = append(ids, obj.StorageID)
		}
	}
	return ids
}
