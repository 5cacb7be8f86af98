package model

import "time"

// Channel is a durable, owner-scoped copy of an upstream channel's metadata
// and raw counters. (ExternalID, OwnerID) is unique: re-syncing the same
// upstream channel for the same owner always lands on the same row.
type Channel struct {
	ID              string     `json:"id"`
	ExternalID      string     `json:"externalId"`
	OwnerID         string     `json:"-"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	ThumbnailURL    *string    `json:"thumbnailUrl,omitempty"`
	SubscriberCount int64      `json:"subscriberCount"`
	ViewCount       int64      `json:"viewCount"`
	VideoCount      int64      `json:"videoCount"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	Country         *string    `json:"country,omitempty"`
	Language        *string    `json:"language,omitempty"`
	LastSyncAt      time.Time  `json:"lastSyncAt"`
}

// ChannelAttrs carries the mutable channel fields overwritten on every upsert.
type ChannelAttrs struct {
	Title           string
	Description     *string
	ThumbnailURL    *string
	SubscriberCount int64
	ViewCount       int64
	VideoCount      int64
	PublishedAt     *time.Time
	Country         *string
	Language        *string
}
