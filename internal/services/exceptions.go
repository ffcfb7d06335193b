package services

import "hos-schedule-service/internal/domain"

// ExceptionKind names a regulatory carve-out from the standard HOS rules.
type ExceptionKind string

const (
	ShortHaul         ExceptionKind = "short_haul"
	NonCDLShortHaul   ExceptionKind = "non_cdl_short_haul"
	AdverseConditions ExceptionKind = "adverse_conditions"
	SixteenHour       ExceptionKind = "sixteen_hour"
)

// Air-mile radius for both short-haul exceptions.
const shortHaulRadiusMiles = 150

// Fixed evaluation order for CheckExceptions.
var exceptionOrder = []ExceptionKind{ShortHaul, NonCDLShortHaul, AdverseConditions, SixteenHour}

type exceptionRule struct {
	name        string
	cfrSection  string
	description string
	conditions  []string
	benefits    []string
	eligible    func(p domain.TripParameters) bool
}

var exceptionRules = map[ExceptionKind]exceptionRule{
	ShortHaul: {
		name:        "150 Air-Mile Radius (CDL)",
		cfrSection:  "49 CFR §395.1(e)(1)",
		description: "Exception for drivers operating within 150 air-mile radius",
		conditions: []string{
			"Return to normal work location within 14 consecutive hours",
			"Stay within 150 air-mile radius of work location",
			"Have at least 10 consecutive hours off duty between shifts",
			"Employer maintains time records for 6 months",
		},
		benefits: []string{
			"No ELD or logbook required (time records only)",
			"30-minute break not required",
			"No RODS required if conditions met",
		},
		// Road miles bound air miles from above, so this never over-qualifies a trip.
		eligible: func(p domain.TripParameters) bool {
			return p.RequiresCDL && p.TotalDistanceMiles > 0 && p.TotalDistanceMiles <= shortHaulRadiusMiles
		},
	},
	NonCDLShortHaul: {
		name:        "150 Air-Mile Radius (Non-CDL)",
		cfrSection:  "49 CFR §395.1(e)(2)",
		description: "Exception for non-CDL drivers operating short distances",
		conditions: []string{
			"CMV does not require CDL",
			"Work within 150 air-mile radius",
			"Return to work location daily",
			"Specific hour limitations apply",
		},
		benefits: []string{
			"No logbook required",
			"Specific hour limitations instead of standard HOS",
			"Time records maintained by employer",
		},
		eligible: func(p domain.TripParameters) bool { return !p.RequiresCDL },
	},
	AdverseConditions: {
		name:        "Adverse Driving Conditions",
		cfrSection:  "49 CFR §395.1(b)(1)",
		description: "Allows extra driving time for unexpected conditions",
		conditions: []string{
			"Conditions could not be anticipated",
			"Not typical rush hour traffic",
			"Driver must annotate in RODS",
		},
		benefits: []string{
			"Up to 2 additional hours of driving time",
			"Extension of 14-hour driving window by 2 hours",
			"Complete current run despite conditions",
		},
		eligible: func(p domain.TripParameters) bool { return p.AdverseConditions },
	},
	SixteenHour: {
		name:        "16-Hour Short-Haul",
		cfrSection:  "49 CFR §395.1(o)",
		description: "Extend driving window to 16 hours once per week",
		conditions: []string{
			"Return to work reporting location",
			"Released within 16 hours",
			"Once every 7 consecutive days",
			"Not eligible for non-CDL exception",
		},
		benefits: []string{
			"Extend 14-hour window to 16 hours",
			"Once every 7 consecutive days",
			"After 34-hour restart can use again",
		},
		eligible: func(p domain.TripParameters) bool { return p.RequiresCDL },
	},
}

// CheckException evaluates a single exception against the trip.
// Unknown kinds are never eligible.
func CheckException(kind ExceptionKind, p domain.TripParameters) (bool, []string) {
	rule, ok := exceptionRules[kind]
	if !ok || !rule.eligible(p) {
		return false, nil
	}
	return true, append([]string(nil), rule.benefits...)
}

// CheckExceptions returns every exception the trip qualifies for.
// The result is informational; the schedule engine does not consult it.
func CheckExceptions(p domain.TripParameters) []domain.HOSException {
	out := []domain.HOSException{}
	for _, kind := range exceptionOrder {
		ok, benefits := CheckException(kind, p)
		if !ok {
			continue
		}

		rule := exceptionRules[kind]
		out = append(out, domain.HOSException{
			Kind:        string(kind),
			Name:        rule.name,
			CFRSection:  rule.cfrSection,
			Description: rule.description,
			Conditions:  append([]string(nil), rule.conditions...),
			Benefits:    benefits,
		})
	}
	return out
}

// LegalReferences lists the regulations the schedule is evaluated against.
func LegalReferences() []domain.LegalReference {
	return []domain.LegalReference{
		{Section: "49 CFR §395.3(a)(3)", Title: "11-Hour Driving Limit"},
		{Section: "49 CFR §395.3(a)(2)", Title: "14-Hour Driving Window"},
		{Section: "49 CFR §395.3(a)(3)(ii)", Title: "30-Minute Break Requirement"},
		{Section: "49 CFR §395.3(b)", Title: "70-Hour/8-Day Limit"},
	}
}
