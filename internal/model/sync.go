package model

import "time"

// SyncMode selects how raw items in a batch are interpreted.
type SyncMode string

const (
	ModeVideo   SyncMode = "video"
	ModeChannel SyncMode = "channel"
)

// Valid reports whether the mode is one of the two recognized values.
func (m SyncMode) Valid() bool {
	return m == ModeVideo || m == ModeChannel
}

// RawItem is a loosely structured record handed in by the upstream fetch
// layer. Field presence is not guaranteed; the sync service validates and
// converts each item before it reaches the store. Alternate field names
// (Id vs ExternalID, snippet-style channel fields) mirror the shapes the
// upstream search API produces.
type RawItem struct {
	ID         string `json:"id,omitempty"`
	ExternalID string `json:"externalId,omitempty"`

	Title        string     `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	ThumbnailURL *string    `json:"thumbnailUrl,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	Country      *string    `json:"country,omitempty"`
	Language     *string    `json:"language,omitempty"`

	// Channel identity carried by video items. ChannelRef is an explicit
	// internal channel id; when absent the channel is resolved (or stubbed)
	// from the upstream channel id.
	ChannelRef        string `json:"channelRef,omitempty"`
	ChannelExternalID string `json:"channelExternalId,omitempty"`
	ChannelID         string `json:"channelId,omitempty"`
	ChannelTitle      string `json:"channelTitle,omitempty"`

	Duration      *string  `json:"duration,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	PrivacyStatus *string  `json:"privacyStatus,omitempty"`
	UploadStatus  *string  `json:"uploadStatus,omitempty"`

	ViewCount       int64 `json:"viewCount,omitempty"`
	LikeCount       int64 `json:"likeCount,omitempty"`
	CommentCount    int64 `json:"commentCount,omitempty"`
	SubscriberCount int64 `json:"subscriberCount,omitempty"`
	VideoCount      int64 `json:"videoCount,omitempty"`
}

// ChannelItem is a validated channel-mode ingestion item.
type ChannelItem struct {
	ExternalID string
	Attrs      ChannelAttrs
}

// VideoItem is a validated video-mode ingestion item. Either ChannelRef
// (internal id) or ChannelExternalID is set; ChannelStub holds the minimal
// channel attributes used when the owning channel has to be created on the
// fly.
type VideoItem struct {
	ExternalID        string
	ChannelRef        string
	ChannelExternalID string
	ChannelStub       ChannelAttrs
	Attrs             VideoAttrs
}

// ItemResult records the outcome of a single item within a batch.
type ItemResult struct {
	Index      int    `json:"index"`
	ExternalID string `json:"externalId,omitempty"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
}

// ItemError records a single item failure with its position in the batch.
type ItemError struct {
	Index      int    `json:"index"`
	ExternalID string `json:"externalId,omitempty"`
	Error      string `json:"error"`
}

// SyncOutcome summarizes one batch call. Success means at least one item
// succeeded; callers that need all-or-nothing semantics must check
// FailureCount themselves.
type SyncOutcome struct {
	Success      bool         `json:"success"`
	SuccessCount int          `json:"successCount"`
	FailureCount int          `json:"failureCount"`
	Results      []ItemResult `json:"results"`
	Errors       []ItemError  `json:"errors"`
}
