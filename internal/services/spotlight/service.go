// Package spotlight composes the stored video pool with the rotation picker.
//
// The service owns the "video of the week" feature of the registry
// frontend: an external updater replaces the pool once per rotation
// period, and each featured query draws a fresh selection that always
// leads with the newest entry.
package spotlight

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tienisto/pub-dev/internal/core/rotation"
	"github.com/Tienisto/pub-dev/internal/platform/random"
	weberrors "github.com/Tienisto/pub-dev/internal/platform/web/errors"
	"github.com/Tienisto/pub-dev/internal/services/spotlight/storage"
)

// DefaultFeaturedCount is the selection size used when a caller does not
// request one.
const DefaultFeaturedCount = 5

// Service answers featured-video queries against the stored pool.
type Service struct {
	store         storage.VideoStore
	newSeed       func() (int64, error)
	featuredCount int
}

// NewService creates a spotlight service backed by the provided store.
// Production selections are seeded from crypto/rand so each query draws
// independently.
func NewService(store storage.VideoStore) *Service {
	return &Service{
		store:         store,
		newSeed:       random.NewSeed,
		featuredCount: DefaultFeaturedCount,
	}
}

// Featured returns a rotation of count videos from the stored pool.
//
// A count of zero or less requests the default selection size. The count
// is clamped to the pool size, and an empty pool yields an empty
// selection rather than an error.
func (s *Service) Featured(ctx context.Context, count int) ([]storage.Video, error) {
	if s == nil || s.store == nil {
		return nil, weberrors.E(weberrors.KindUnavailable, "spotlight storage is not configured")
	}
	if count <= 0 {
		count = s.featuredCount
	}

	videos, err := s.store.ListVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if len(videos) == 0 {
		return []storage.Video{}, nil
	}
	if count > len(videos) {
		count = len(videos)
	}

	seed, err := s.newSeed()
	if err != nil {
		return nil, fmt.Errorf("new rotation seed: %w", err)
	}
	selection, err := rotation.PickSeeded(seed, videos, count)
	if err != nil {
		return nil, fmt.Errorf("pick featured videos: %w", err)
	}
	return selection, nil
}

// ReplacePool swaps the stored video pool for the provided one. Pool
// positions are assigned from slice order: the first entry becomes the
// fixed lead of every subsequent featured selection.
func (s *Service) ReplacePool(ctx context.Context, videos []storage.Video) error {
	if s == nil || s.store == nil {
		return weberrors.E(weberrors.KindUnavailable, "spotlight storage is not configured")
	}
	for i, video := range videos {
		if strings.TrimSpace(video.Key) == "" {
			return weberrors.E(weberrors.KindInvalidInput, fmt.Sprintf("video %d: key is required", i))
		}
		if strings.TrimSpace(video.URL) == "" {
			return weberrors.E(weberrors.KindInvalidInput, fmt.Sprintf("video %d: url is required", i))
		}
		if strings.TrimSpace(video.Title) == "" {
			return weberrors.E(weberrors.KindInvalidInput, fmt.Sprintf("video %d: title is required", i))
		}
	}
	if err := s.store.ReplaceVideos(ctx, videos); err != nil {
		return fmt.Errorf("replace videos: %w", err)
	}
	return nil
}

// Videos returns the full stored pool in position order.
func (s *Service) Videos(ctx context.Context) ([]storage.Video, error) {
	if s == nil || s.store == nil {
		return nil, weberrors.E(weberrors.KindUnavailable, "spotlight storage is not configured")
	}
	videos, err := s.store.ListVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}
