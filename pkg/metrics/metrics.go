// Package metrics derives performance and engagement figures from raw
// integer counters. All functions are pure and treat zero or missing
// denominators as 0, never as an error.
package metrics

import (
	"math"
	"time"
)

// Performance grade bands over the views-to-subscribers ratio. Boundaries
// are inclusive on the lower bound: a ratio of exactly 5 is "excellent".
const (
	GradeExcellent = "excellent"
	GradeHigh      = "high"
	GradeMedium    = "medium"
	GradeLow       = "low"
	GradePoor      = "poor"
)

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EngagementRate returns (likes+comments)/views as a percentage, rounded to
// 2 decimal places. Zero views yields 0.
func EngagementRate(likes, comments, views int64) float64 {
	if views <= 0 {
		return 0
	}
	return Round2(float64(likes+comments) / float64(views) * 100)
}

// ViewsPerDay spreads a view counter over the days since publication,
// counting at least one day. A nil publishedAt yields the raw view count.
func ViewsPerDay(views int64, publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil {
		return float64(views)
	}
	days := DaysBetween(*publishedAt, now)
	if days < 1 {
		days = 1
	}
	return Round2(float64(views) / float64(days))
}

// DaysBetween returns the number of whole days from a to b, floored at 0.
func DaysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// ChannelContribution returns the share of a channel's total views carried
// by one item, as a percentage. Zero channel views yields 0.
func ChannelContribution(itemViews, channelTotalViews int64) float64 {
	if channelTotalViews <= 0 {
		return 0
	}
	return Round2(float64(itemViews) / float64(channelTotalViews) * 100)
}

// SubscriberRatio returns views per subscriber. Zero subscribers yields 0.
func SubscriberRatio(views, subscribers int64) float64 {
	if subscribers <= 0 {
		return 0
	}
	return Round2(float64(views) / float64(subscribers))
}

// PerformanceGrade classifies a subscriber ratio into a band.
func PerformanceGrade(ratio float64) string {
	switch {
	case ratio >= 5:
		return GradeExcellent
	case ratio >= 2:
		return GradeHigh
	case ratio >= 1:
		return GradeMedium
	case ratio >= 0.5:
		return GradeLow
	default:
		return GradePoor
	}
}
