package model

import "time"

// VideoSummary is the compact video shape embedded in channel reports.
type VideoSummary struct {
	ID           string     `json:"id"`
	ExternalID   string     `json:"externalId"`
	Title        string     `json:"title"`
	ThumbnailURL *string    `json:"thumbnailUrl,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	Duration     *string    `json:"duration,omitempty"`
	ViewCount    int64      `json:"viewCount"`
	LikeCount    int64      `json:"likeCount"`
	CommentCount int64      `json:"commentCount"`
}

// ChannelAnalytics holds the derived rollup for one channel, computed over a
// bounded recent slice of its videos.
type ChannelAnalytics struct {
	TotalVideos         int            `json:"totalVideos"`
	TotalViews          int64          `json:"totalViews"`
	TotalLikes          int64          `json:"totalLikes"`
	TotalComments       int64          `json:"totalComments"`
	AvgViews            float64        `json:"avgViews"`
	AvgLikes            float64        `json:"avgLikes"`
	AvgComments         float64        `json:"avgComments"`
	EngagementRate      float64        `json:"engagementRate"`
	RecentVideosCount   int            `json:"recentVideosCount"`
	HighPerformingCount int            `json:"highPerformingCount"`
	RecentVideos        []VideoSummary `json:"recentVideos"`
	TopVideos           []VideoSummary `json:"topVideos"`
}

// ChannelReportEntry pairs a stored channel with its derived analytics.
type ChannelReportEntry struct {
	Channel
	Analytics ChannelAnalytics `json:"analytics"`
}

// ChannelsSummary is the cross-channel rollup of a channels report.
type ChannelsSummary struct {
	TotalChannels     int     `json:"totalChannels"`
	TotalVideos       int     `json:"totalVideos"`
	TotalViews        int64   `json:"totalViews"`
	TotalSubscribers  int64   `json:"totalSubscribers"`
	AvgEngagementRate float64 `json:"avgEngagementRate"`
}

// ChannelsReport is the dashboard-ready response of SummarizeChannels.
type ChannelsReport struct {
	Channels []ChannelReportEntry `json:"channels"`
	Summary  ChannelsSummary      `json:"summary"`
}

// VideoAnalytics holds the per-video derived metrics.
type VideoAnalytics struct {
	EngagementRate      float64 `json:"engagementRate"`
	ViewsPerDay         float64 `json:"viewsPerDay"`
	ChannelContribution float64 `json:"channelContribution"`
	SubscriberRatio     float64 `json:"subscriberRatio"`
	PerformanceGrade    string  `json:"performanceGrade"`
	UploadedDaysAgo     *int    `json:"uploadedDaysAgo,omitempty"`
}

// VideoReportEntry pairs a stored video with its derived analytics and a
// slim reference to its channel.
type VideoReportEntry struct {
	Video
	Analytics VideoAnalytics `json:"analytics"`
	Channel   ChannelRef     `json:"channel"`
}

// ChannelRef is the slim channel shape embedded in video report entries.
type ChannelRef struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
}

// GradeDistribution counts videos per performance band.
type GradeDistribution struct {
	Excellent int `json:"excellent"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
	Poor      int `json:"poor"`
}

// RecentActivity summarizes uploads from the trailing 30-day window.
type RecentActivity struct {
	VideosLast30Days    int     `json:"videosLast30Days"`
	AvgViewsRecent      float64 `json:"avgViewsRecent"`
	AvgEngagementRecent float64 `json:"avgEngagementRecent"`
}

// VideosAnalyticsSummary is the aggregate section of a videos report.
type VideosAnalyticsSummary struct {
	TotalVideos       int               `json:"totalVideos"`
	TotalViews        int64             `json:"totalViews"`
	TotalLikes        int64             `json:"totalLikes"`
	TotalComments     int64             `json:"totalComments"`
	AvgViews          float64           `json:"avgViews"`
	AvgLikes          float64           `json:"avgLikes"`
	AvgComments       float64           `json:"avgComments"`
	AvgEngagementRate float64           `json:"avgEngagementRate"`
	Distribution      GradeDistribution `json:"performanceDistribution"`
	RecentActivity    RecentActivity    `json:"recentActivity"`
}

// Pagination echoes the limit applied to a videos report.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// VideosReport is the dashboard-ready response of SummarizeVideos.
type VideosReport struct {
	Videos     []VideoReportEntry     `json:"videos"`
	Pagination Pagination             `json:"pagination"`
	Analytics  VideosAnalyticsSummary `json:"analytics"`
}
