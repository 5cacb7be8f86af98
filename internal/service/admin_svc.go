package service

import (
	"context"
	"log"

	"github.com/do0han/tubespyv1/internal/model"
)

// Deletable entity kinds accepted by the admin path.
const (
	KindChannel = "channel"
	KindVideo   = "video"
)

// ChannelAdmin is the destructive slice of the channel store.
type ChannelAdmin interface {
	DeleteByID(ctx context.Context, ownerID, id string) (int64, error)
	BulkDelete(ctx context.Context, ownerID string, ids []string) (channels, videos int64, err error)
}

// VideoAdmin is the destructive slice of the video store.
type VideoAdmin interface {
	DeleteByID(ctx context.Context, ownerID, id string) error
	BulkDelete(ctx context.Context, ownerID string, ids []string) (int64, error)
}

// DeleteResult reports how many rows a delete removed.
type DeleteResult struct {
	DeletedChannels int64 `json:"deletedChannels"`
	DeletedVideos   int64 `json:"deletedVideos"`
}

// AdminService fronts the data-management delete operations. Every call is
// owner-verified in the store layer; bulk deletes are all-or-nothing.
type AdminService struct {
	channels ChannelAdmin
	videos   VideoAdmin
	cache    *CacheService
}

// NewAdminService creates the admin service. cache may be nil.
func NewAdminService(channels ChannelAdmin, videos VideoAdmin, cache *CacheService) *AdminService {
	return &AdminService{channels: channels, videos: videos, cache: cache}
}

// DeleteByID removes one entity. Deleting a channel cascades to its videos;
// deleting a video leaves its channel untouched.
func (s *AdminService) DeleteByID(ctx context.Context, ownerID, kind, id string) (*DeleteResult, error) {
	if ownerID == "" {
		return nil, &model.ValidationError{Field: "owner", Reason: "owner is required"}
	}
	if id == "" {
		return nil, &model.ValidationError{Field: "id", Reason: "id is required"}
	}

	var result DeleteResult
	switch kind {
	case KindChannel:
		videos, err := s.channels.DeleteByID(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		result.DeletedChannels = 1
		result.DeletedVideos = videos
	case KindVideo:
		if err := s.videos.DeleteByID(ctx, ownerID, id); err != nil {
			return nil, err
		}
		result.DeletedVideos = 1
	default:
		return nil, &model.ValidationError{Field: "kind", Reason: "kind must be channel or video"}
	}

	s.invalidate(ctx, ownerID)
	return &result, nil
}

// BulkDelete removes a set of entities of one kind. Ownership of every id
// is validated before anything is deleted; a single foreign id rejects the
// whole request and no rows are removed.
func (s *AdminService) BulkDelete(ctx context.Context, ownerID, kind string, ids []string) (*DeleteResult, error) {
	if ownerID == "" {
		return nil, &model.ValidationError{Field: "owner", Reason: "owner is required"}
	}
	if len(ids) == 0 {
		return nil, &model.ValidationError{Field: "ids", Reason: "ids must not be empty"}
	}

	var result DeleteResult
	switch kind {
	case KindChannel:
		channels, videos, err := s.channels.BulkDelete(ctx, ownerID, ids)
		if err != nil {
			return nil, err
		}
		result.DeletedChannels = channels
		result.DeletedVideos = videos
	case KindVideo:
		videos, err := s.videos.BulkDelete(ctx, ownerID, ids)
		if err != nil {
			return nil, err
		}
		result.DeletedVideos = videos
	default:
		return nil, &model.ValidationError{Field: "kind", Reason: "kind must be channel or video"}
	}

	s.invalidate(ctx, ownerID)
	return &result, nil
}

func (s *AdminService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOwner(ctx, ownerID); err != nil {
		log.Printf("admin: report cache invalidation failed: %v", err)
	}
}
