package worker

import (
	"time"

	"github.com/oggyb/matchmaker/internal/config"
)

// TopK is the shortlist size persisted per user.
const TopK = 50

// Clamping ranges for per-invocation options. Callers may pass anything;
// Normalize keeps one bad query parameter from loading the whole user base.
const (
	DefaultBatchSize = 10
	MinBatchSize     = 1
	MaxBatchSize     = 50

	DefaultCandidateCap = 200
	MinCandidateCap     = 20
	MaxCandidateCap     = 500

	DefaultCallTimeout = 10 * time.Second
	MinCallTimeout     = 2 * time.Second
	MaxCallTimeout     = 15 * time.Second
)

// Options control one worker run.
type Options struct {
	BatchSize    int
	CandidateCap int
	CallTimeout  time.Duration

	// MaxAttempts stops reclaiming a job after this many failures.
	// Zero disables the cutoff.
	MaxAttempts int
}

// OptionsFromConfig seeds run options from service configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BatchSize:    cfg.Worker.BatchSize,
		CandidateCap: cfg.Worker.CandidateCap,
		CallTimeout:  time.Duration(cfg.Worker.CallTimeoutMs) * time.Millisecond,
		MaxAttempts:  cfg.Worker.MaxAttempts,
	}
}

// Normalize applies defaults and clamps every knob into its allowed range.
func (o Options) Normalize() Options {
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	o.BatchSize = clampInt(o.BatchSize, MinBatchSize, MaxBatchSize)

	if o.CandidateCap == 0 {
		o.CandidateCap = DefaultCandidateCap
	}
	o.CandidateCap = clampInt(o.CandidateCap, MinCandidateCap, MaxCandidateCap)

	if o.CallTimeout == 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	if o.CallTimeout < MinCallTimeout {
		o.CallTimeout = MinCallTimeout
	}
	if o.CallTimeout > MaxCallTimeout {
		o.CallTimeout = MaxCallTimeout
	}

	if o.MaxAttempts < 0 {
		o.MaxAttempts = 0
	}
	return o
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
