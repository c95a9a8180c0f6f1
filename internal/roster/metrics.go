package roster

import "github.com/couchcryptid/baseball-program-finder/internal/domain"

// ProgramMetrics bundles every roster derivation for one program. Nil fields
// are not available for the program.
type ProgramMetrics struct {
	ProgramID         int64              `json:"program_id"`
	ProgramName       string             `json:"program_name"`
	Trajectory        *Trajectory        `json:"trajectory,omitempty"`
	FreshmanRetention *float64           `json:"freshman_retention_pct,omitempty"`
	InStatePct        float64            `json:"in_state_pct"`
	Depth             *Depth             `json:"depth,omitempty"`
	States            *StateDistribution `json:"states,omitempty"`
}

// Metrics computes all roster analytics for p.
func (a *Analyzer) Metrics(p domain.ProgramRecord) ProgramMetrics {
	m := ProgramMetrics{
		ProgramID:   p.ProgramID,
		ProgramName: p.Name,
		InStatePct:  a.InStateRecruitingPct(p),
	}
	if t, ok := a.Trajectory(p.ProgramID); ok {
		m.Trajectory = &t
	}
	if r, ok := a.FreshmanRetention(p.ProgramID); ok {
		m.FreshmanRetention = &r
	}
	if d, ok := a.PositionDepth(p.ProgramID); ok {
		m.Depth = &d
	}
	if s, ok := a.StateDistribution(p.ProgramID); ok {
		m.States = &s
	}
	return m
}
