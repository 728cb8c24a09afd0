package domain

// ResolutionMetrics is a snapshot of resolution-related counters suitable
// for the GET /v1/metrics/resolution endpoint.
type ResolutionMetrics struct {
	TotalMutations   int64   `json:"total_mutations"`
	PersistErrors    int64   `json:"persist_errors"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	ActiveFeatures   int     `json:"active_features"`
	ActiveModules    int     `json:"active_modules"`
	SetupCompleted   bool    `json:"setup_completed"`
	ProfileInitiated bool    `json:"profile_initialized"`
}
