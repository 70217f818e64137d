package domain

import "fmt"

// Default severity cut points, in normalized percent space.
const (
	DefaultCriticalThreshold  = 15.0
	DefaultWarningThreshold   = 10.0
	DefaultFavorableThreshold = -5.0
)

// Thresholds are the severity cut points used by ClassifySeverity.
// They are injected at construction time and read-only afterwards.
type Thresholds struct {
	Critical  float64
	Warning   float64
	Favorable float64
}

// DefaultThresholds returns the standard cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Critical:  DefaultCriticalThreshold,
		Warning:   DefaultWarningThreshold,
		Favorable: DefaultFavorableThreshold,
	}
}

// Validate checks that the cut points are ordered sensibly.
func (t Thresholds) Validate() error {
	if t.Warning <= 0 {
		return fmt.Errorf("%w: warning threshold must be positive", ErrInvalidThresholds)
	}
	if t.Critical < t.Warning {
		return fmt.Errorf("%w: critical threshold must not be below warning", ErrInvalidThresholds)
	}
	if t.Favorable >= 0 {
		return fmt.Errorf("%w: favorable threshold must be negative", ErrInvalidThresholds)
	}
	return nil
}
