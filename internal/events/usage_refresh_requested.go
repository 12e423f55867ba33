package events

import "time"

const UsageRefreshTopic = "saas.usage.refresh.v1"

const EventTypeUsageRefreshRequested = "usage_refresh_requested"

// UsageRefreshRequestedEvent asks the aggregator to recompute the usage
// materialized view. It is a request to schedule, not a wait-for-fresh.
type UsageRefreshRequestedEvent struct {
	EventType  string    `json:"event_type"`
	CompanyID  string    `json:"company_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
