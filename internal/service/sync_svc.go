package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/do0han/tubespyv1/internal/model"
)

// ChannelStore is the slice of the reconciliation store the sync service
// needs for channels.
type ChannelStore interface {
	Upsert(ctx context.Context, ownerID, externalID string, attrs model.ChannelAttrs) (*model.Channel, error)
	UpsertStub(ctx context.Context, ownerID, externalID string, attrs model.ChannelAttrs) (*model.Channel, error)
	FindByID(ctx context.Context, ownerID, id string) (*model.Channel, error)
}

// VideoStore is the slice of the reconciliation store the sync service
// needs for videos.
type VideoStore interface {
	Upsert(ctx context.Context, ownerID, externalID, channelID string, attrs model.VideoAttrs) (*model.Video, error)
}

// SyncService turns batches of raw upstream items into idempotent store
// upserts. Items are processed strictly one at a time with a fixed delay
// between them: concurrent upserts racing on the (externalId, owner) key
// could both observe "not found" and insert twice, and the delay bounds
// write load on the store.
type SyncService struct {
	channels ChannelStore
	videos   VideoStore
	cache    *CacheService
	delay    time.Duration
}

// NewSyncService creates the orchestrator. cache may be nil; delay <= 0
// disables inter-item pacing (used by tests).
func NewSyncService(channels ChannelStore, videos VideoStore, cache *CacheService, delay time.Duration) *SyncService {
	return &SyncService{channels: channels, videos: videos, cache: cache, delay: delay}
}

// SyncBatch processes items sequentially and reports a per-item outcome.
// A malformed item is recorded and skipped; only an unreachable store aborts
// the batch. An empty batch is a successful no-op.
func (s *SyncService) SyncBatch(ctx context.Context, ownerID string, items []model.RawItem, mode model.SyncMode) (*model.SyncOutcome, error) {
	if ownerID == "" {
		return nil, &model.ValidationError{Field: "owner", Reason: "owner is required"}
	}
	if !mode.Valid() {
		return nil, &model.ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown sync mode %q", mode)}
	}

	outcome := &model.SyncOutcome{
		Results: []model.ItemResult{},
		Errors:  []model.ItemError{},
	}
	if len(items) == 0 {
		outcome.Success = true
		return outcome, nil
	}

	for i, item := range items {
		externalID, err := s.syncItem(ctx, ownerID, item, mode)
		if err != nil {
			var upstream *model.UpstreamError
			if errors.As(err, &upstream) {
				return nil, err
			}
			outcome.FailureCount++
			outcome.Results = append(outcome.Results, model.ItemResult{
				Index: i, ExternalID: externalID, Success: false, Message: err.Error(),
			})
			outcome.Errors = append(outcome.Errors, model.ItemError{
				Index: i, ExternalID: externalID, Error: err.Error(),
			})
		} else {
			outcome.SuccessCount++
			outcome.Results = append(outcome.Results, model.ItemResult{
				Index: i, ExternalID: externalID, Success: true,
			})
		}

		if s.delay > 0 && i < len(items)-1 {
			time.Sleep(s.delay)
		}
	}

	outcome.Success = outcome.SuccessCount > 0
	log.Printf("sync: batch complete mode=%s success=%d failure=%d", mode, outcome.SuccessCount, outcome.FailureCount)

	if outcome.SuccessCount > 0 && s.cache != nil {
		if err := s.cache.InvalidateOwner(ctx, ownerID); err != nil {
			log.Printf("sync: report cache invalidation failed: %v", err)
		}
	}
	return outcome, nil
}

// syncItem validates and upserts one raw item, returning the external id it
// resolved (for error reporting) and any failure.
func (s *SyncService) syncItem(ctx context.Context, ownerID string, raw model.RawItem, mode model.SyncMode) (string, error) {
	switch mode {
	case model.ModeChannel:
		item, err := convertChannelItem(raw)
		if err != nil {
			return rawExternalID(raw), err
		}
		_, err = s.channels.Upsert(ctx, ownerID, item.ExternalID, item.Attrs)
		return item.ExternalID, err

	default: // model.ModeVideo, validated by the caller
		item, err := convertVideoItem(raw)
		if err != nil {
			return rawExternalID(raw), err
		}
		channel, err := s.resolveChannel(ctx, ownerID, item)
		if err != nil {
			return item.ExternalID, err
		}
		_, err = s.videos.Upsert(ctx, ownerID, item.ExternalID, channel.ID, item.Attrs)
		return item.ExternalID, err
	}
}

// resolveChannel finds the owning channel for a video item: an explicit
// internal reference must already exist, otherwise the upstream channel id
// is upserted as a minimal stub.
func (s *SyncService) resolveChannel(ctx context.Context, ownerID string, item *model.VideoItem) (*model.Channel, error) {
	if item.ChannelRef != "" {
		return s.channels.FindByID(ctx, ownerID, item.ChannelRef)
	}
	return s.channels.UpsertStub(ctx, ownerID, item.ChannelExternalID, item.ChannelStub)
}

func rawExternalID(raw model.RawItem) string {
	if raw.ExternalID != "" {
		return raw.ExternalID
	}
	return raw.ID
}

// convertChannelItem validates a raw record as a channel ingestion item.
func convertChannelItem(raw model.RawItem) (*model.ChannelItem, error) {
	externalID := rawExternalID(raw)
	if externalID == "" {
		return nil, &model.ValidationError{Field: "externalId", Reason: "channel item is missing its external id"}
	}
	return &model.ChannelItem{
		ExternalID: externalID,
		Attrs: model.ChannelAttrs{
			Title:           raw.Title,
			Description:     raw.Description,
			ThumbnailURL:    raw.ThumbnailURL,
			SubscriberCount: raw.SubscriberCount,
			ViewCount:       raw.ViewCount,
			VideoCount:      raw.VideoCount,
			PublishedAt:     raw.PublishedAt,
			Country:         raw.Country,
			Language:        raw.Language,
		},
	}, nil
}

// convertVideoItem validates a raw record as a video ingestion item. A video
// must carry its own external id and some way to reach its channel.
func convertVideoItem(raw model.RawItem) (*model.VideoItem, error) {
	externalID := rawExternalID(raw)
	if externalID == "" {
		return nil, &model.ValidationError{Field: "externalId", Reason: "video item is missing its external id"}
	}

	channelExternalID := raw.ChannelExternalID
	if channelExternalID == "" {
		channelExternalID = raw.ChannelID
	}
	if raw.ChannelRef == "" && channelExternalID == "" {
		return nil, &model.ValidationError{Field: "channelExternalId", Reason: "video item carries no channel identity"}
	}

	channelTitle := raw.ChannelTitle
	if channelTitle == "" {
		channelTitle = "Unknown channel"
	}

	return &model.VideoItem{
		ExternalID:        externalID,
		ChannelRef:        raw.ChannelRef,
		ChannelExternalID: channelExternalID,
		ChannelStub: model.ChannelAttrs{
			Title:           channelTitle,
			SubscriberCount: raw.SubscriberCount,
			VideoCount:      raw.VideoCount,
		},
		Attrs: model.VideoAttrs{
			Title:         raw.Title,
			Description:   raw.Description,
			ThumbnailURL:  raw.ThumbnailURL,
			PublishedAt:   raw.PublishedAt,
			Duration:      raw.Duration,
			Tags:          raw.Tags,
			ViewCount:     raw.ViewCount,
			LikeCount:     raw.LikeCount,
			CommentCount:  raw.CommentCount,
			PrivacyStatus: raw.PrivacyStatus,
			UploadStatus:  raw.UploadStatus,
		},
	}, nil
}
