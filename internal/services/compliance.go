package services

import (
	"fmt"

	"hos-schedule-service/internal/domain"
)

const restartAction = "34-hour restart required"

// The per-day figures compliance is judged on.
type DayTotals struct {
	DrivingHours float64
	OnDutyHours  float64
	OffDutyHours float64
}

// EvaluateCompliance checks one day against the daily limits and the 8-day cycle.
// Each rule is checked independently, so several violations may be reported together.
// Exceeding a limit is an expected outcome, not an error.
func EvaluateCompliance(day DayTotals, cycle8DayTotal float64, limits domain.RegulatoryLimits) domain.ComplianceResult {
	violations := []domain.Violation{}

	if day.DrivingHours > limits.MaxDailyDriving {
		violations = append(violations, domain.Violation{
			Rule:        fmt.Sprintf("%g-hour driving limit (§395.3(a)(3))", limits.MaxDailyDriving),
			LimitValue:  limits.MaxDailyDriving,
			ActualValue: day.DrivingHours,
		})
	}

	if day.OnDutyHours > limits.MaxDailyDutyWindow {
		violations = append(violations, domain.Violation{
			Rule:        fmt.Sprintf("%g-hour driving window (§395.3(a)(2))", limits.MaxDailyDutyWindow),
			LimitValue:  limits.MaxDailyDutyWindow,
			ActualValue: day.OnDutyHours,
		})
	}

	if day.OffDutyHours < limits.MinOffDutyHours {
		violations = append(violations, domain.Violation{
			Rule:        fmt.Sprintf("%g-hour off-duty requirement (§395.3(a)(1))", limits.MinOffDutyHours),
			LimitValue:  limits.MinOffDutyHours,
			ActualValue: day.OffDutyHours,
		})
	}

	if cycle8DayTotal > limits.Max8DayCycleHours {
		violations = append(violations, domain.Violation{
			Rule:        fmt.Sprintf("%g-hour/8-day limit (§395.3(b))", limits.Max8DayCycleHours),
			LimitValue:  limits.Max8DayCycleHours,
			ActualValue: cycle8DayTotal,
			Action:      restartAction,
		})
	}

	summary := "Fully compliant"
	if len(violations) > 0 {
		summary = fmt.Sprintf("%d violation(s) found", len(violations))
	}

	return domain.ComplianceResult{
		IsCompliant: len(violations) == 0,
		Violations:  violations,
		Summary:     summary,
	}
}
