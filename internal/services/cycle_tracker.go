package services

// CycleTracker keeps rolling 7-day and 8-day on-duty totals for one schedule computation.
//
// The pre-trip balance is a single aggregate with no per-day breakdown, so it
// seeds both totals and never rolls off. Only days recorded through RecordDay
// leave the window, which means the totals over-count until the trip itself
// has produced more than 7 (resp. 8) days.
type CycleTracker struct {
	maxCycleHours  float64
	history        []float64
	cycle7DayTotal float64
	cycle8DayTotal float64
}

func NewCycleTracker(hoursUsedAtStart, maxCycleHours float64) *CycleTracker {
	return &CycleTracker{
		maxCycleHours:  maxCycleHours,
		cycle7DayTotal: hoursUsedAtStart,
		cycle8DayTotal: hoursUsedAtStart,
	}
}

// RecordDay appends one day's on-duty hours and rolls both windows forward.
func (c *CycleTracker) RecordDay(onDutyHours float64) {
	c.history = append(c.history, onDutyHours)
	c.cycle7DayTotal += onDutyHours
	c.cycle8DayTotal += onDutyHours

	n := len(c.history)
	if n > 7 {
		c.cycle7DayTotal -= c.history[n-1-7]
	}
	if n > 8 {
		c.cycle8DayTotal -= c.history[n-1-8]
	}
}

// RequiresRestart reports whether the 8-day total has reached the cycle ceiling.
func (c *CycleTracker) RequiresRestart() bool {
	return c.cycle8DayTotal >= c.maxCycleHours
}

func (c *CycleTracker) Cycle7DayTotal() float64 { return c.cycle7DayTotal }

func (c *CycleTracker) Cycle8DayTotal() float64 { return c.cycle8DayTotal }

func (c *CycleTracker) DaysRecorded() int { return len(c.history) }
