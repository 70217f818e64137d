package usecase

import "time"

const (
	// DefaultCacheTTL is how long a cached analysis stays fresh.
	DefaultCacheTTL = time.Hour

	// DefaultTrendLookback is how many trailing periods feed a trend.
	DefaultTrendLookback = 6

	// MaxTrendLookback caps caller-requested lookback windows.
	MaxTrendLookback = 36
)
