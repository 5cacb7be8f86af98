package model

import "time"

// Video is a durable, owner-scoped copy of an upstream video's metadata and
// raw counters. (ExternalID, OwnerID) is unique, same semantics as Channel.
// ChannelID references the owning Channel row; deleting the channel cascades.
type Video struct {
	ID            string     `json:"id"`
	ExternalID    string     `json:"externalId"`
	OwnerID       string     `json:"-"`
	ChannelID     string     `json:"channelId"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	ThumbnailURL  *string    `json:"thumbnailUrl,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	Duration      *string    `json:"duration,omitempty"`
	Tags          []string   `json:"tags"`
	ViewCount     int64      `json:"viewCount"`
	LikeCount     int64      `json:"likeCount"`
	CommentCount  int64      `json:"commentCount"`
	PrivacyStatus *string    `json:"privacyStatus,omitempty"`
	UploadStatus  *string    `json:"uploadStatus,omitempty"`
	LastSyncAt    time.Time  `json:"lastSyncAt"`
}

// VideoAttrs carries the mutable video fields overwritten on every upsert.
type VideoAttrs struct {
	Title         string
	Description   *string
	ThumbnailURL  *string
	PublishedAt   *time.Time
	Duration      *string
	Tags          []string
	ViewCount     int64
	LikeCount     int64
	CommentCount  int64
	PrivacyStatus *string
	UploadStatus  *string
}
