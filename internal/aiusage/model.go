package aiusage

import "time"

// Record is one immutable generation-attempt usage event.
type Record struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ContentType  string    `json:"contentType"`
	TokensUsed   int       `json:"tokensUsed"`
	DurationMs   int       `json:"durationMs"`
	CacheHit     bool      `json:"cacheHit"`
	Success      bool      `json:"success"`
	CostEstimate float64   `json:"costEstimate"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TypeCount is one content type's share of recorded requests.
type TypeCount struct {
	ContentType string `json:"contentType"`
	Count       int    `json:"count"`
}

// Summary aggregates usage records for the admin dashboard.
type Summary struct {
	TotalRequests int         `json:"totalRequests"`
	CacheHits     int         `json:"cacheHits"`
	Failures      int         `json:"failures"`
	TotalTokens   int         `json:"totalTokens"`
	TotalCost     float64     `json:"totalCost"`
	ByContentType []TypeCount `json:"byContentType"`
}
