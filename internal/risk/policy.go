// Package risk classifies jobs by financial and schedule warning signs:
// under-billing severity, margin fade against a snapshot baseline, and
// schedule drift. All functions are pure; snapshot history arrives
// through the History interface so callers choose where baselines come
// from.
package risk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default attention cutoffs. Several report call sites filter on the
// same values, so they live here as the single source of truth rather
// than inlined at each site.
const (
	// Under-billed amount as a percent of earned revenue.
	DefaultUnderbilledAttentionPct = 50.0
	DefaultUnderbilledSeverePct    = 75.0

	// Margin fade in percentage points versus the prior snapshot.
	DefaultMarginFadeWarnPts   = 10.0
	DefaultMarginFadeSeverePts = 20.0

	// Schedule drift in whole weeks behind.
	DefaultDriftWarnWeeks   = 2
	DefaultDriftSevereWeeks = 4

	// Under-billing ratio bands for the risk level ladder.
	DefaultUnderbilledLowPct    = 10.0
	DefaultUnderbilledMediumPct = 50.0

	// DefaultBehindTargetGraceDays is how far past the target end date a
	// job may run before portfolio scoring counts it behind schedule.
	DefaultBehindTargetGraceDays = 14
)

// Policy holds the tunable risk cutoffs. The defaults match the values
// the report filters were built around; a YAML file can override them
// per company.
type Policy struct {
	UnderbilledAttentionPct float64 `yaml:"underbilled_attention_pct"`
	UnderbilledSeverePct    float64 `yaml:"underbilled_severe_pct"`

	MarginFadeWarnPts   float64 `yaml:"margin_fade_warn_pts"`
	MarginFadeSeverePts float64 `yaml:"margin_fade_severe_pts"`

	DriftWarnWeeks   int `yaml:"drift_warn_weeks"`
	DriftSevereWeeks int `yaml:"drift_severe_weeks"`

	UnderbilledLowPct    float64 `yaml:"underbilled_low_pct"`
	UnderbilledMediumPct float64 `yaml:"underbilled_medium_pct"`

	BehindTargetGraceDays int `yaml:"behind_target_grace_days"`
}

// DefaultPolicy returns the standard cutoffs.
func DefaultPolicy() Policy {
	return Policy{
		UnderbilledAttentionPct: DefaultUnderbilledAttentionPct,
		UnderbilledSeverePct:    DefaultUnderbilledSeverePct,
		MarginFadeWarnPts:       DefaultMarginFadeWarnPts,
		MarginFadeSeverePts:     DefaultMarginFadeSeverePts,
		DriftWarnWeeks:          DefaultDriftWarnWeeks,
		DriftSevereWeeks:        DefaultDriftSevereWeeks,
		UnderbilledLowPct:       DefaultUnderbilledLowPct,
		UnderbilledMediumPct:    DefaultUnderbilledMediumPct,
		BehindTargetGraceDays:   DefaultBehindTargetGraceDays,
	}
}

// LoadPolicy reads cutoff overrides from a YAML file. Fields left unset
// in the file keep their defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("reading policy file: %w", err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parsing policy file: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return policy, err
	}

	return policy, nil
}

// Validate rejects cutoff combinations that would make the severity
// ladder contradict itself.
func (p Policy) Validate() error {
	if p.UnderbilledSeverePct < p.UnderbilledAttentionPct {
		return fmt.Errorf("underbilled_severe_pct (%.1f) must be >= underbilled_attention_pct (%.1f)",
			p.UnderbilledSeverePct, p.UnderbilledAttentionPct)
	}
	if p.MarginFadeSeverePts < p.MarginFadeWarnPts {
		return fmt.Errorf("margin_fade_severe_pts (%.1f) must be >= margin_fade_warn_pts (%.1f)",
			p.MarginFadeSeverePts, p.MarginFadeWarnPts)
	}
	if p.DriftSevereWeeks < p.DriftWarnWeeks {
		return fmt.Errorf("drift_severe_weeks (%d) must be >= drift_warn_weeks (%d)",
			p.DriftSevereWeeks, p.DriftWarnWeeks)
	}
	if p.UnderbilledMediumPct < p.UnderbilledLowPct {
		return fmt.Errorf("underbilled_medium_pct (%.1f) must be >= underbilled_low_pct (%.1f)",
			p.UnderbilledMediumPct, p.UnderbilledLowPct)
	}
	return nil
}
