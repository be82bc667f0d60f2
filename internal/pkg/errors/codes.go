package errors

import "net/http"

var (
	ErrInvalidQuery = New(
		"INVALID_QUERY",
		"Invalid event query: venue coordinates and target audience are required",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidTimePeriod = New(
		"INVALID_TIME_PERIOD",
		"Invalid time period: must be morning, lunch or evening",
		http.StatusBadRequest,
	)

	ErrInvalidLimit = New(
		"INVALID_LIMIT",
		"Invalid limit value",
		http.StatusBadRequest,
	)

	ErrZoneNotFound = New(
		"ZONE_NOT_FOUND",
		"Zone not found",
		http.StatusNotFound,
	)

	ErrCatalogUnavailable = New(
		"CATALOG_UNAVAILABLE",
		"Zone catalog unavailable: all resolution tiers failed",
		http.StatusServiceUnavailable,
	)

	ErrUpstreamRateLimited = New(
		"UPSTREAM_RATE_LIMITED",
		"Semantic matching service rate limit exceeded",
		http.StatusTooManyRequests,
	)

	ErrRequestSuperseded = New(
		"REQUEST_SUPERSEDED",
		"A newer scoring request for this session replaced this one",
		http.StatusConflict,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
