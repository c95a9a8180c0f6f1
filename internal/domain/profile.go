package domain

// Well-known metric keys in a user's profile bundles.
const (
	MetricSATTotal      = "sat_total"
	MetricGPAUnweighted = "gpa_unweighted"
	MetricExitVelo      = "exit_velo"
	MetricPitchingVelo  = "pitching_velo"
)

// AthleticMetrics is a sparse bundle of self-reported athletic measurements.
type AthleticMetrics map[string]float64

// AcademicInfo is a sparse bundle of self-reported academic measurements.
type AcademicInfo map[string]float64

// UserProfile is the subset of a user's profile the fit engine reads. Either
// bundle may be nil.
type UserProfile struct {
	UserID   string          `json:"user_id"`
	Athletic AthleticMetrics `json:"athletic_metrics,omitempty"`
	Academic AcademicInfo    `json:"academic_info,omitempty"`
}

// SATTotal returns the user's SAT total, or 0 when not supplied.
func (a AcademicInfo) SATTotal() float64 {
	return a[MetricSATTotal]
}

// GPA returns the unweighted GPA, or 0 when not supplied.
func (a AcademicInfo) GPA() float64 {
	return a[MetricGPAUnweighted]
}
