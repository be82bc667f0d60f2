// Package docs Zone Recommender API.
//
// Service that ranks physical placement zones for promotional messages.
// Scores every zone in the active catalog on audience match, temporal
// alignment, distance and dwell time, flags risky placements and returns
// a ranked list.
//
// Key capabilities:
// - Ranked zone recommendations with per-component score breakdowns
// - Cheap re-ranking for a different time of day without re-running audience matching
// - Zone catalog with layered fallback (store, live generation, bundled dataset)
// - Risk warnings for high-traffic zones where the message is unlikely to land
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- application/geo+json
//
// swagger:meta
package docs
