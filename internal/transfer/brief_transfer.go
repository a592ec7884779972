package transfer

import "time"

// ContentBrief is what the strategy layer hands to the production
// pipeline: a title-bearing script seed plus reach/scheduling hints.
type ContentBrief struct {
	Title             string    `json:"title"`
	Topic             string    `json:"topic"`
	Description       string    `json:"description"`
	Tags              []string  `json:"tags"`
	EstimatedViews    int64     `json:"estimated_views"`
	HasCompetitorData bool      `json:"has_competitor_data"`
	TargetPublishTime time.Time `json:"target_publish_time"`
}
