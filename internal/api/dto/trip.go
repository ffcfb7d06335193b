package dto

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"hos-schedule-service/internal/domain"
	"hos-schedule-service/internal/services"
)

const (
	maxLocationLen   = 255
	minCMVWeight     = 10001
	maxCMVWeight     = 200000
	defaultTripType  = "interstate"
	maxCycleHoursAPI = 70
)

// ValidationError is a request problem the client can fix; handlers map it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ParseTripRequest validates an untyped JSON object and applies defaults.
// Every failure is a *ValidationError.
func ParseTripRequest(raw map[string]any) (services.TripRequest, error) {
	if raw == nil {
		return services.TripRequest{}, invalid("request body must be a JSON object")
	}

	req := services.TripRequest{
		TripType:    defaultTripType,
		CMVWeight:   minCMVWeight,
		RequiresCDL: true,
	}

	for _, field := range []string{"current_location", "pickup_location", "dropoff_location", "current_cycle_used"} {
		if _, ok := raw[field]; !ok {
			return services.TripRequest{}, invalid("Missing required field: %s", field)
		}
	}

	var err error
	if req.CurrentLocation, err = locationField(raw, "current_location"); err != nil {
		return services.TripRequest{}, err
	}
	if req.PickupLocation, err = locationField(raw, "pickup_location"); err != nil {
		return services.TripRequest{}, err
	}
	if req.DropoffLocation, err = locationField(raw, "dropoff_location"); err != nil {
		return services.TripRequest{}, err
	}

	cycle, ok := number(raw["current_cycle_used"])
	if !ok {
		return services.TripRequest{}, invalid("current_cycle_used must be a number")
	}
	if cycle < 0 || cycle > maxCycleHoursAPI {
		return services.TripRequest{}, invalid("current_cycle_used must be between 0 and %d hours", maxCycleHoursAPI)
	}
	req.CurrentCycleUsed = cycle

	if v, ok := raw["trip_type"]; ok && v != nil {
		s, ok := v.(string)
		s = strings.ToLower(strings.TrimSpace(s))
		if !ok || (s != "interstate" && s != "intrastate") {
			return services.TripRequest{}, invalid("trip_type must be interstate or intrastate")
		}
		req.TripType = s
	}

	if v, ok := raw["state"]; ok && v != nil {
		s, ok := v.(string)
		s = strings.ToUpper(strings.TrimSpace(s))
		if !ok || !isStateCode(s) {
			return services.TripRequest{}, invalid("state must be a 2-letter state code")
		}
		req.State = s
	}

	if v, ok := raw["cmv_weight"]; ok && v != nil {
		w, ok := number(v)
		if !ok || w != math.Trunc(w) {
			return services.TripRequest{}, invalid("cmv_weight must be an integer")
		}
		if w < minCMVWeight {
			return services.TripRequest{}, invalid("CMV weight must be at least %d lbs", minCMVWeight)
		}
		if w > maxCMVWeight {
			return services.TripRequest{}, invalid("CMV weight must be at most %d lbs", maxCMVWeight)
		}
		req.CMVWeight = int(w)
	}

	if req.RequiresCDL, err = boolField(raw, "requires_cdl", req.RequiresCDL); err != nil {
		return services.TripRequest{}, err
	}
	if req.AdverseConditions, err = boolField(raw, "adverse_conditions", false); err != nil {
		return services.TripRequest{}, err
	}
	if req.IncludesHazmat, err = boolField(raw, "includes_hazmat", false); err != nil {
		return services.TripRequest{}, err
	}

	if v, ok := raw["start_date"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return services.TripRequest{}, invalid("start_date must be a YYYY-MM-DD string")
		}
		d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
		if err != nil {
			return services.TripRequest{}, invalid("start_date must be a YYYY-MM-DD string")
		}
		req.StartDate = d
	}

	return req, nil
}

func locationField(raw map[string]any, field string) (string, error) {
	s, ok := raw[field].(string)
	if !ok {
		return "", invalid("%s must be a string", field)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid("%s must not be empty", field)
	}
	if len(s) > maxLocationLen {
		return "", invalid("%s must be at most %d characters", field, maxLocationLen)
	}
	return s, nil
}

func boolField(raw map[string]any, field string, def bool) (bool, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return def, nil
	}

	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, invalid("%s must be a boolean", field)
		}
		return parsed, nil
	default:
		return false, invalid("%s must be a boolean", field)
	}
}

// number accepts JSON numbers and numeric strings.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isStateCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

type PlanTripResponse struct {
	TripID            string                   `json:"trip_id"`
	Trip              domain.Trip              `json:"trip"`
	Route             domain.RouteEstimate     `json:"route"`
	EldLogs           []domain.DayRecord       `json:"eld_logs"`
	ComplianceSummary domain.ComplianceSummary `json:"compliance_summary"`
	Exceptions        []domain.HOSException    `json:"exceptions"`
	LegalReferences   []domain.LegalReference  `json:"legal_references"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

type GetTripResponse struct {
	Trip              domain.Trip              `json:"trip"`
	EldLogs           []domain.DayRecord       `json:"eld_logs"`
	ComplianceSummary domain.ComplianceSummary `json:"compliance_summary"`
}
