package dto

import "github.com/zone-recommender/internal/domain"

// ScoreRequest asks for ranked zone recommendations for an event.
type ScoreRequest struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Date           string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time           string   `json:"time" validate:"omitempty"`
	VenueLat       float64  `json:"venue_lat" validate:"required,min=-90,max=90"`
	VenueLon       float64  `json:"venue_lon" validate:"required,min=-180,max=180"`
	TargetAudience []string `json:"target_audience" validate:"required,min=1,dive,required"`
	EventType      string   `json:"event_type" validate:"omitempty"`
	TimePeriod     string   `json:"time_period" validate:"omitempty,oneof=morning lunch evening"`
	SessionID      string   `json:"session_id" validate:"omitempty"`
	Limit          int      `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ToEventQuery converts the request into the domain query.
func (r ScoreRequest) ToEventQuery() domain.EventQuery {
	return domain.EventQuery{
		Name:           r.Name,
		Date:           r.Date,
		Time:           r.Time,
		VenueLat:       r.VenueLat,
		VenueLon:       r.VenueLon,
		TargetAudience: r.TargetAudience,
		EventType:      r.EventType,
		TimePeriod:     domain.TimePeriod(r.TimePeriod),
		SessionID:      r.SessionID,
	}
}

// RerankRequest re-ranks a previously scored event for a new time period.
// The event fields must match the original request so the cached result can
// be found.
type RerankRequest struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Date           string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time           string   `json:"time" validate:"omitempty"`
	VenueLat       float64  `json:"venue_lat" validate:"required,min=-90,max=90"`
	VenueLon       float64  `json:"venue_lon" validate:"required,min=-180,max=180"`
	TargetAudience []string `json:"target_audience" validate:"required,min=1,dive,required"`
	EventType      string   `json:"event_type" validate:"omitempty"`
	TimePeriod     string   `json:"time_period" validate:"required,oneof=morning lunch evening"`
	SessionID      string   `json:"session_id" validate:"omitempty"`
	Limit          int      `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ToEventQuery converts the rerank request into the domain query. The new
// time period is deliberately NOT set on the query: the cache key must match
// the original scoring request.
func (r RerankRequest) ToEventQuery() domain.EventQuery {
	return domain.EventQuery{
		Name:           r.Name,
		Date:           r.Date,
		Time:           r.Time,
		VenueLat:       r.VenueLat,
		VenueLon:       r.VenueLon,
		TargetAudience: r.TargetAudience,
		EventType:      r.EventType,
		SessionID:      r.SessionID,
	}
}
