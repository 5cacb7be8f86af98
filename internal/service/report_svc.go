package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/do0han/tubespyv1/internal/model"
	"github.com/do0han/tubespyv1/internal/repository"
	"github.com/do0han/tubespyv1/pkg/metrics"
)

const (
	// recentWindow is the trailing window treated as "recent activity".
	recentWindow = 30 * 24 * time.Hour
	// channelVideoSlice bounds how many of a channel's newest videos feed
	// its per-channel rollup.
	channelVideoSlice = 50

	recentVideosLimit  = 10
	topVideosLimit     = 5
	defaultVideosLimit = 20
)

// ChannelReader is the read-only channel access the reporter needs.
type ChannelReader interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Channel, error)
}

// VideoReader is the read-only video access the reporter needs.
type VideoReader interface {
	ListByOwner(ctx context.Context, ownerID, channelID, orderBy string, descending bool, limit int) ([]repository.VideoWithChannel, error)
	ListRecentByChannel(ctx context.Context, channelID string, limit int) ([]model.Video, error)
}

// VideoReportOptions selects and orders the videos report.
type VideoReportOptions struct {
	ChannelID string
	SortField string
	SortOrder string // "asc" or "desc"
	Limit     int
}

// derivedSorts are the metric fields that only exist after computation;
// sorting by them happens in memory and the limit is applied afterwards.
var derivedSorts = map[string]func(model.VideoAnalytics) float64{
	"engagementRate":      func(a model.VideoAnalytics) float64 { return a.EngagementRate },
	"viewsPerDay":         func(a model.VideoAnalytics) float64 { return a.ViewsPerDay },
	"subscriberRatio":     func(a model.VideoAnalytics) float64 { return a.SubscriberRatio },
	"channelContribution": func(a model.VideoAnalytics) float64 { return a.ChannelContribution },
}

// ReportService produces read-only rollups from whatever is currently
// committed. Reads are plain snapshots: no cross-read transactional
// consistency between channels and their videos is promised.
type ReportService struct {
	channels ChannelReader
	videos   VideoReader
	cache    *CacheService
	now      func() time.Time
}

// NewReportService creates the reporter. cache may be nil.
func NewReportService(channels ChannelReader, videos VideoReader, cache *CacheService) *ReportService {
	return &ReportService{channels: channels, videos: videos, cache: cache, now: time.Now}
}

// SummarizeChannels builds the per-channel and cross-channel rollup for one
// owner. A channel with no videos reports zeros throughout.
func (s *ReportService) SummarizeChannels(ctx context.Context, ownerID string) (*model.ChannelsReport, error) {
	if ownerID == "" {
		return nil, &model.ValidationError{Field: "owner", Reason: "owner is required"}
	}

	if s.cache != nil {
		var cached model.ChannelsReport
		hit, err := s.cache.GetReport(ctx, ChannelsReportKey(ownerID), &cached)
		if err != nil {
			log.Printf("report: channels cache get error: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	channels, err := s.channels.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	report := &model.ChannelsReport{Channels: []model.ChannelReportEntry{}}
	var rateSum float64

	for _, ch := range channels {
		videos, err := s.videos.ListRecentByChannel(ctx, ch.ID, channelVideoSlice)
		if err != nil {
			return nil, err
		}
		analytics := s.channelAnalytics(videos)

		report.Channels = append(report.Channels, model.ChannelReportEntry{
			Channel:   ch,
			Analytics: analytics,
		})

		report.Summary.TotalVideos += analytics.TotalVideos
		report.Summary.TotalViews += analytics.TotalViews
		report.Summary.TotalSubscribers += ch.SubscriberCount
		rateSum += analytics.EngagementRate
	}

	report.Summary.TotalChannels = len(channels)
	if len(channels) > 0 {
		report.Summary.AvgEngagementRate = metrics.Round2(rateSum / float64(len(channels)))
	}

	if s.cache != nil {
		if err := s.cache.SetReport(ctx, ChannelsReportKey(ownerID), report); err != nil {
			log.Printf("report: channels cache set error: %v", err)
		}
	}
	return report, nil
}

// channelAnalytics rolls one channel's recent videos into totals, averages,
// the 30-day subset, and the above-own-average subset.
func (s *ReportService) channelAnalytics(videos []model.Video) model.ChannelAnalytics {
	a := model.ChannelAnalytics{
		RecentVideos: []model.VideoSummary{},
		TopVideos:    []model.VideoSummary{},
	}
	a.TotalVideos = len(videos)
	if a.TotalVideos == 0 {
		return a
	}

	for _, v := range videos {
		a.TotalViews += v.ViewCount
		a.TotalLikes += v.LikeCount
		a.TotalComments += v.CommentCount
	}
	n := float64(a.TotalVideos)
	a.AvgViews = metrics.Round2(float64(a.TotalViews) / n)
	a.AvgLikes = metrics.Round2(float64(a.TotalLikes) / n)
	a.AvgComments = metrics.Round2(float64(a.TotalComments) / n)
	a.EngagementRate = metrics.EngagementRate(a.TotalLikes, a.TotalComments, a.TotalViews)

	cutoff := s.now().Add(-recentWindow)
	var high []model.Video
	for _, v := range videos {
		if v.PublishedAt != nil && v.PublishedAt.After(cutoff) {
			a.RecentVideosCount++
			if len(a.RecentVideos) < recentVideosLimit {
				a.RecentVideos = append(a.RecentVideos, videoSummary(v))
			}
		}
		if float64(v.ViewCount) > a.AvgViews {
			high = append(high, v)
		}
	}
	a.HighPerformingCount = len(high)

	sort.SliceStable(high, func(i, j int) bool {
		return high[i].ViewCount > high[j].ViewCount
	})
	for i := 0; i < len(high) && i < topVideosLimit; i++ {
		a.TopVideos = append(a.TopVideos, videoSummary(high[i]))
	}
	return a
}

// SummarizeVideos builds the per-video report. Sorting by a stored column is
// pushed down to the store together with the limit; sorting by a derived
// metric is done here after computation, and only then is the limit applied.
func (s *ReportService) SummarizeVideos(ctx context.Context, ownerID string, opts VideoReportOptions) (*model.VideosReport, error) {
	if ownerID == "" {
		return nil, &model.ValidationError{Field: "owner", Reason: "owner is required"}
	}
	if opts.SortField == "" {
		opts.SortField = "publishedAt"
	}
	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultVideosLimit
	}
	descending := opts.SortOrder != "asc"

	metricKey, derived := derivedSorts[opts.SortField]
	column, stored := repository.SortColumn(opts.SortField)
	if !derived && !stored {
		return nil, &model.ValidationError{Field: "sortBy", Reason: "unknown sort field " + opts.SortField}
	}

	cacheKey := VideosReportKey(ownerID, opts.ChannelID, opts.SortField, opts.SortOrder, opts.Limit)
	if s.cache != nil {
		var cached model.VideosReport
		hit, err := s.cache.GetReport(ctx, cacheKey, &cached)
		if err != nil {
			log.Printf("report: videos cache get error: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	var (
		rows []repository.VideoWithChannel
		err  error
	)
	if derived {
		// The store cannot order by a metric it does not have; fetch the
		// full candidate set and narrow after computing.
		rows, err = s.videos.ListByOwner(ctx, ownerID, opts.ChannelID, "", true, 0)
	} else {
		rows, err = s.videos.ListByOwner(ctx, ownerID, opts.ChannelID, column, descending, opts.Limit)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]model.VideoReportEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, s.videoEntry(row))
	}

	if derived {
		sort.SliceStable(entries, func(i, j int) bool {
			if descending {
				return metricKey(entries[i].Analytics) > metricKey(entries[j].Analytics)
			}
			return metricKey(entries[i].Analytics) < metricKey(entries[j].Analytics)
		})
		if len(entries) > opts.Limit {
			entries = entries[:opts.Limit]
		}
	}

	report := &model.VideosReport{
		Videos: entries,
		Pagination: model.Pagination{
			Total:   len(entries),
			Limit:   opts.Limit,
			HasMore: len(entries) == opts.Limit,
		},
		Analytics: s.videosSummary(entries),
	}

	if s.cache != nil {
		if err := s.cache.SetReport(ctx, cacheKey, report); err != nil {
			log.Printf("report: videos cache set error: %v", err)
		}
	}
	return report, nil
}

// videoEntry attaches derived metrics and the slim channel reference to a
// stored video row.
func (s *ReportService) videoEntry(row repository.VideoWithChannel) model.VideoReportEntry {
	v := row.Video
	ratio := metrics.SubscriberRatio(v.ViewCount, row.ChannelSubscribers)

	analytics := model.VideoAnalytics{
		EngagementRate:      metrics.EngagementRate(v.LikeCount, v.CommentCount, v.ViewCount),
		ViewsPerDay:         metrics.ViewsPerDay(v.ViewCount, v.PublishedAt, s.now()),
		ChannelContribution: metrics.ChannelContribution(v.ViewCount, row.ChannelViews),
		SubscriberRatio:     ratio,
		PerformanceGrade:    metrics.PerformanceGrade(ratio),
	}
	if v.PublishedAt != nil {
		days := metrics.DaysBetween(*v.PublishedAt, s.now())
		analytics.UploadedDaysAgo = &days
	}

	return model.VideoReportEntry{
		Video:     v,
		Analytics: analytics,
		Channel: model.ChannelRef{
			ID:         v.ChannelID,
			ExternalID: row.ChannelExternalID,
			Title:      row.ChannelTitle,
		},
	}
}

// videosSummary aggregates the report entries into totals, the grade
// distribution, and the 30-day activity rollup.
func (s *ReportService) videosSummary(entries []model.VideoReportEntry) model.VideosAnalyticsSummary {
	sum := model.VideosAnalyticsSummary{TotalVideos: len(entries)}
	if len(entries) == 0 {
		return sum
	}

	cutoff := s.now().Add(-recentWindow)
	var recentViews, recentLikes, recentComments int64
	recentCount := 0

	for _, e := range entries {
		sum.TotalViews += e.ViewCount
		sum.TotalLikes += e.LikeCount
		sum.TotalComments += e.CommentCount

		switch e.Analytics.PerformanceGrade {
		case metrics.GradeExcellent:
			sum.Distribution.Excellent++
		case metrics.GradeHigh:
			sum.Distribution.High++
		case metrics.GradeMedium:
			sum.Distribution.Medium++
		case metrics.GradeLow:
			sum.Distribution.Low++
		default:
			sum.Distribution.Poor++
		}

		if e.PublishedAt != nil && e.PublishedAt.After(cutoff) {
			recentCount++
			recentViews += e.ViewCount
			recentLikes += e.LikeCount
			recentComments += e.CommentCount
		}
	}

	n := float64(len(entries))
	sum.AvgViews = metrics.Round2(float64(sum.TotalViews) / n)
	sum.AvgLikes = metrics.Round2(float64(sum.TotalLikes) / n)
	sum.AvgComments = metrics.Round2(float64(sum.TotalComments) / n)
	sum.AvgEngagementRate = metrics.EngagementRate(sum.TotalLikes, sum.TotalComments, sum.TotalViews)

	sum.RecentActivity.VideosLast30Days = recentCount
	if recentCount > 0 {
		sum.RecentActivity.AvgViewsRecent = metrics.Round2(float64(recentViews) / float64(recentCount))
		sum.RecentActivity.AvgEngagementRecent = metrics.EngagementRate(recentLikes, recentComments, recentViews)
	}
	return sum
}

func videoSummary(v model.Video) model.VideoSummary {
	return model.VideoSummary{
		ID:           v.ID,
		ExternalID:   v.ExternalID,
		Title:        v.Title,
		ThumbnailURL: v.ThumbnailURL,
		PublishedAt:  v.PublishedAt,
		Duration:     v.Duration,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
	}
}
