// Package analytics reports aggregate AI moderation metrics for the
// admin dashboard.
package analytics

import "time"

// Timeframe bounds for report queries, in days.
const (
	DefaultTimeframeDays = 30
	MaxTimeframeDays     = 365
)

// fallbackProcessingMS approximates per-resource analysis time when no
// recorded timings exist in the window, so dashboard estimates stay
// populated for fresh deployments.
const fallbackProcessingMS = 2400

// Report summarizes AI moderation activity over a trailing window.
// Accuracy is the share of human-decided resources where the decision
// matched the AI verdict; nil until at least one analyzed resource has
// been decided.
type Report struct {
	TimeframeDays     int       `json:"timeframe_days"`
	TotalAnalyzed     int       `json:"total_analyzed"`
	Approvals         int       `json:"approvals"`
	Rejections        int       `json:"rejections"`
	Neutral           int       `json:"neutral"`
	AverageConfidence float64   `json:"average_confidence"`
	Accuracy          *float64  `json:"accuracy"`
	AvgProcessingMS   float64   `json:"avg_processing_ms"`
	ServiceErrors     int       `json:"service_errors"`
	Queue             Queue     `json:"queue"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// Queue reflects the current moderation backlog, independent of the
// report timeframe.
type Queue struct {
	Pending          int `json:"pending"`
	AwaitingAnalysis int `json:"awaiting_analysis"`
	ReadyForDecision int `json:"ready_for_decision"`
}
