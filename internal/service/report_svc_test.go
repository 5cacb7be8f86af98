package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/do0han/tubespyv1/internal/model"
	"github.com/do0han/tubespyv1/internal/repository"
)

type fakeChannelReader struct {
	channels []model.Channel
	err      error
}

func (f *fakeChannelReader) ListByOwner(_ context.Context, _ string) ([]model.Channel, error) {
	return f.channels, f.err
}

// fakeVideoReader serves canned rows and honors the limit the way the real
// store would.
type fakeVideoReader struct {
	rows      []repository.VideoWithChannel
	byChannel map[string][]model.Video
	lastOrder string
	lastLimit int
}

func (f *fakeVideoReader) ListByOwner(_ context.Context, _, channelID, orderBy string, _ bool, limit int) ([]repository.VideoWithChannel, error) {
	f.lastOrder = orderBy
	f.lastLimit = limit

	rows := f.rows
	if channelID != "" {
		var filtered []repository.VideoWithChannel
		for _, r := range rows {
			if r.Video.ChannelID == channelID {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeVideoReader) ListRecentByChannel(_ context.Context, channelID string, limit int) ([]model.Video, error) {
	videos := f.byChannel[channelID]
	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

func newTestReportService(channels ChannelReader, videos VideoReader, now time.Time) *ReportService {
	svc := NewReportService(channels, videos, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func timePtr(t time.Time) *time.Time { return &t }

func reportRow(id, channelID string, views, likes, comments, subs, channelViews int64, published *time.Time) repository.VideoWithChannel {
	return repository.VideoWithChannel{
		Video: model.Video{
			ID:           id,
			ExternalID:   "ext-" + id,
			ChannelID:    channelID,
			Title:        id,
			ViewCount:    views,
			LikeCount:    likes,
			CommentCount: comments,
			PublishedAt:  published,
		},
		ChannelExternalID:  "UC-" + channelID,
		ChannelTitle:       "Channel " + channelID,
		ChannelSubscribers: subs,
		ChannelViews:       channelViews,
	}
}

func TestSummarizeChannelsEmptyOwner(t *testing.T) {
	svc := newTestReportService(&fakeChannelReader{}, &fakeVideoReader{}, time.Now())

	report, err := svc.SummarizeChannels(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary.TotalChannels != 0 || report.Summary.AvgEngagementRate != 0 {
		t.Fatalf("empty owner should report zeros: %+v", report.Summary)
	}
	if report.Channels == nil {
		t.Fatal("channels slice should be non-nil for JSON")
	}
}

func TestSummarizeChannelsRequiresOwner(t *testing.T) {
	svc := newTestReportService(&fakeChannelReader{}, &fakeVideoReader{}, time.Now())

	_, err := svc.SummarizeChannels(context.Background(), "")
	var validation *model.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSummarizeChannelsZeroVideoChannel(t *testing.T) {
	channels := &fakeChannelReader{channels: []model.Channel{
		{ID: "ch-1", SubscriberCount: 100},
	}}
	videos := &fakeVideoReader{byChannel: map[string][]model.Video{}}
	svc := newTestReportService(channels, videos, time.Now())

	report, err := svc.SummarizeChannels(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := report.Channels[0].Analytics
	if a.TotalVideos != 0 || a.AvgViews != 0 || a.EngagementRate != 0 {
		t.Fatalf("channel with no videos should be all zeros: %+v", a)
	}
	if report.Summary.TotalSubscribers != 100 {
		t.Fatalf("subscriber totals still count: %+v", report.Summary)
	}
}

func TestSummarizeChannelsRollup(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * 24 * time.Hour)
	old := now.Add(-90 * 24 * time.Hour)

	channels := &fakeChannelReader{channels: []model.Channel{
		{ID: "ch-1", SubscriberCount: 1000},
	}}
	videos := &fakeVideoReader{byChannel: map[string][]model.Video{
		"ch-1": {
			{ID: "v1", ViewCount: 1000, LikeCount: 50, CommentCount: 10, PublishedAt: timePtr(recent)},
			{ID: "v2", ViewCount: 100, LikeCount: 5, CommentCount: 1, PublishedAt: timePtr(old)},
			{ID: "v3", ViewCount: 400, LikeCount: 20, CommentCount: 4, PublishedAt: timePtr(old)},
		},
	}}
	svc := newTestReportService(channels, videos, now)

	report, err := svc.SummarizeChannels(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := report.Channels[0].Analytics
	if a.TotalVideos != 3 || a.TotalViews != 1500 {
		t.Fatalf("totals wrong: %+v", a)
	}
	if a.AvgViews != 500 {
		t.Fatalf("avgViews = %v, want 500", a.AvgViews)
	}
	// (50+5+20 + 10+1+4) / 1500 * 100 = 6.00
	if a.EngagementRate != 6.00 {
		t.Fatalf("engagementRate = %v, want 6.00", a.EngagementRate)
	}
	if a.RecentVideosCount != 1 {
		t.Fatalf("recentVideosCount = %d, want 1", a.RecentVideosCount)
	}
	// Above-average (500): v1 only.
	if a.HighPerformingCount != 1 || len(a.TopVideos) != 1 || a.TopVideos[0].ID != "v1" {
		t.Fatalf("high performing wrong: %+v", a)
	}
	if report.Summary.AvgEngagementRate != 6.00 {
		t.Fatalf("summary avg wrong: %+v", report.Summary)
	}
}

func TestSummarizeVideosDefaults(t *testing.T) {
	videos := &fakeVideoReader{rows: []repository.VideoWithChannel{
		reportRow("v1", "ch-1", 100, 5, 1, 1000, 10000, nil),
	}}
	svc := newTestReportService(&fakeChannelReader{}, videos, time.Now())

	report, err := svc.SummarizeVideos(context.Background(), "owner-1", VideoReportOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if videos.lastOrder != "v.published_at" {
		t.Fatalf("default sort should push published_at down, got %q", videos.lastOrder)
	}
	if videos.lastLimit != defaultVideosLimit {
		t.Fatalf("default limit should be %d, got %d", defaultVideosLimit, videos.lastLimit)
	}
	if report.Pagination.Limit != defaultVideosLimit {
		t.Fatalf("pagination echo wrong: %+v", report.Pagination)
	}
}

func TestSummarizeVideosUnknownSortField(t *testing.T) {
	svc := newTestReportService(&fakeChannelReader{}, &fakeVideoReader{}, time.Now())

	_, err := svc.SummarizeVideos(context.Background(), "owner-1", VideoReportOptions{SortField: "cleverness"})
	var validation *model.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSummarizeVideosDerivedSort(t *testing.T) {
	now := time.Now()
	videos := &fakeVideoReader{rows: []repository.VideoWithChannel{
		// engagement: (1+1)/100*100 = 2.00
		reportRow("low", "ch-1", 100, 1, 1, 1000, 10000, timePtr(now)),
		// engagement: (50+10)/1000*100 = 6.00
		reportRow("high", "ch-1", 1000, 50, 10, 1000, 10000, timePtr(now)),
		// engagement: (12+4)/400*100 = 4.00
		reportRow("mid", "ch-1", 400, 12, 4, 1000, 10000, timePtr(now)),
	}}
	svc := newTestReportService(&fakeChannelReader{}, videos, now)

	report, err := svc.SummarizeVideos(context.Background(), "owner-1", VideoReportOptions{
		SortField: "engagementRate",
		SortOrder: "desc",
		Limit:     2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A derived sort must see every candidate before narrowing.
	if videos.lastLimit != 0 {
		t.Fatalf("derived sort should fetch unbounded, got limit %d", videos.lastLimit)
	}
	if len(report.Videos) != 2 {
		t.Fatalf("limit after sort wrong: %d entries", len(report.Videos))
	}
	if report.Videos[0].ID != "high" || report.Videos[1].ID != "mid" {
		t.Fatalf("order wrong: %s, %s", report.Videos[0].ID, report.Videos[1].ID)
	}
	if report.Videos[0].Analytics.EngagementRate != 6.00 {
		t.Fatalf("engagementRate = %v, want 6.00", report.Videos[0].Analytics.EngagementRate)
	}
}

func TestSummarizeVideosDerivedSortAscending(t *testing.T) {
	now := time.Now()
	videos := &fakeVideoReader{rows: []repository.VideoWithChannel{
		reportRow("high", "ch-1", 1000, 50, 10, 1000, 10000, timePtr(now)),
		reportRow("low", "ch-1", 100, 1, 1, 1000, 10000, timePtr(now)),
	}}
	svc := newTestReportService(&fakeChannelReader{}, videos, now)

	report, err := svc.SummarizeVideos(context.Background(), "owner-1", VideoReportOptions{
		SortField: "engagementRate",
		SortOrder: "asc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Videos[0].ID != "low" {
		t.Fatalf("ascending order wrong: first is %s", report.Videos[0].ID)
	}
}

func TestSummarizeVideosGradesAndSummary(t *testing.T) {
	now := time.Now()
	recent := now.Add(-5 * 24 * time.Hour)
	old := now.Add(-60 * 24 * time.Hour)

	videos := &fakeVideoReader{rows: []repository.VideoWithChannel{
		// ratio 5000/1000 = 5.0 -> excellent
		reportRow("a", "ch-1", 5000, 100, 20, 1000, 50000, timePtr(recent)),
		// ratio 2000/1000 = 2.0 -> high
		reportRow("b", "ch-1", 2000, 40, 8, 1000, 50000, timePtr(old)),
		// ratio 300/1000 = 0.3 -> poor
		reportRow("c", "ch-1", 300, 6, 1, 1000, 50000, timePtr(old)),
	}}
	svc := newTestReportService(&fakeChannelReader{}, videos, now)

	report, err := svc.SummarizeVideos(context.Background(), "owner-1", VideoReportOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dist := report.Analytics.Distribution
	if dist.Excellent != 1 || dist.High != 1 || dist.Poor != 1 {
		t.Fatalf("distribution wrong: %+v", dist)
	}
	if report.Analytics.TotalViews != 7300 {
		t.Fatalf("totalViews = %d, want 7300", report.Analytics.TotalViews)
	}
	if report.Analytics.RecentActivity.VideosLast30Days != 1 {
		t.Fatalf("recent window wrong: %+v", report.Analytics.RecentActivity)
	}
	if report.Analytics.RecentActivity.AvgViewsRecent != 5000 {
		t.Fatalf("avgViewsRecent = %v, want 5000", report.Analytics.RecentActivity.AvgViewsRecent)
	}
}

func TestSummarizeVideosChannelContribution(t *testing.T) {
	now := time.Now()
	videos := &fakeVideoReader{rows: []repository.VideoWithChannel{
		reportRow("v1", "ch-1", 2500, 0, 0, 1000, 10000, timePtr(now)),
	}}
	svc := newTestReportService(&fakeChannelReader{}, videos, now)

	report, err := svc.SummarizeVideos(context.Background(), "owner-1", VideoReportOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := report.Videos[0].Analytics.ChannelContribution; got != 25.00 {
		t.Fatalf("channelContribution = %v, want 25.00", got)
	}
	ch := report.Videos[0].Channel
	if ch.ExternalID != "UC-ch-1" || ch.Title != "Channel ch-1" {
		t.Fatalf("channel ref wrong: %+v", ch)
	}
}

func TestSummarizeVideosNilPublishedAt(t *testing.T) {
	videos := &fakeVideoReader{rows: []repository.VideoWithChannel{
		reportRow("v1", "ch-1", 900, 0, 0, 0, 0, nil),
	}}
	svc := newTestReportService(&fakeChannelReader{}, videos, time.Now())

	report, err := svc.SummarizeVideos(context.Background(), "owner-1", VideoReportOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := report.Videos[0].Analytics
	// No publish date: views pass through, no age is reported.
	if a.ViewsPerDay != 900 {
		t.Fatalf("viewsPerDay = %v, want 900", a.ViewsPerDay)
	}
	if a.UploadedDaysAgo != nil {
		t.Fatal("uploadedDaysAgo should be absent without a publish date")
	}
	if a.SubscriberRatio != 0 || a.ChannelContribution != 0 {
		t.Fatalf("zero denominators should yield zeros: %+v", a)
	}
}
