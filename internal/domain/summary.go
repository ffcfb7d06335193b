package domain

// Aggregate compliance view over a whole schedule.
type ComplianceSummary struct {
	IsCompliant         bool    `json:"is_compliant"`
	ViolationCount      int     `json:"violation_count"`
	TotalTripHours      float64 `json:"total_trip_hours"`
	TotalDays           int     `json:"total_days"`
	Requires34hrRestart bool    `json:"requires_34hr_restart"`
}

// Summarize folds a schedule into its ComplianceSummary.
func Summarize(days []DayRecord) ComplianceSummary {
	s := ComplianceSummary{TotalDays: len(days)}
	for _, d := range days {
		s.ViolationCount += len(d.Compliance.Violations)
		s.TotalTripHours += d.DrivingHours
		s.Requires34hrRestart = s.Requires34hrRestart || d.RequiresRestart
	}
	s.IsCompliant = s.ViolationCount == 0
	return s
}
