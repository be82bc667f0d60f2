package domain

import (
	"strconv"
	"strings"
)

// TimePeriod is a coarse time-of-day bucket used for temporal scoring.
type TimePeriod string

const (
	PeriodMorning TimePeriod = "morning" // [06:00, 11:00)
	PeriodLunch   TimePeriod = "lunch"   // [11:00, 14:00)
	PeriodEvening TimePeriod = "evening" // everything else
)

// PeriodForHour maps an hour of day to its time period.
func PeriodForHour(hour int) TimePeriod {
	switch {
	case hour >= 6 && hour < 11:
		return PeriodMorning
	case hour >= 11 && hour < 14:
		return PeriodLunch
	default:
		return PeriodEvening
	}
}

// AdjacentPeriods returns the buckets neighbouring p in the daily cycle.
func AdjacentPeriods(p TimePeriod) []TimePeriod {
	switch p {
	case PeriodMorning:
		return []TimePeriod{PeriodLunch}
	case PeriodLunch:
		return []TimePeriod{PeriodMorning, PeriodEvening}
	default:
		return []TimePeriod{PeriodLunch}
	}
}

// EventQuery is the caller's description of an event needing placement
// recommendations.
type EventQuery struct {
	Name           string     `json:"name"`
	Date           string     `json:"date"` // ISO date
	Time           string     `json:"time"` // "18:00"
	VenueLat       float64    `json:"venue_lat"`
	VenueLon       float64    `json:"venue_lon"`
	TargetAudience []string   `json:"target_audience"`
	EventType      string     `json:"event_type"`
	TimePeriod     TimePeriod `json:"time_period,omitempty"`
	SessionID      string     `json:"session_id,omitempty"`
}

// ResolvedPeriod returns the explicit time period if set, otherwise maps the
// event time-of-day into a bucket. Unparseable times default to evening.
func (q EventQuery) ResolvedPeriod() TimePeriod {
	switch q.TimePeriod {
	case PeriodMorning, PeriodLunch, PeriodEvening:
		return q.TimePeriod
	}
	if hour, ok := parseHour(q.Time); ok {
		return PeriodForHour(hour)
	}
	return PeriodEvening
}

func parseHour(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) == 0 || parts[0] == "" {
		return 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
