package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Hash returns a stable SHA-256 digest of the query's identity fields, used
// as the result-cache key. Free-form fields are normalised before hashing so
// equivalent queries collide.
func (q EventQuery) Hash() string {
	audience := make([]string, len(q.TargetAudience))
	for i, a := range q.TargetAudience {
		audience[i] = strings.ToLower(strings.TrimSpace(a))
	}
	sort.Strings(audience)

	normalized := map[string]interface{}{
		"name":       strings.ToLower(strings.TrimSpace(q.Name)),
		"date":       q.Date,
		"time":       q.Time,
		"venue_lat":  q.VenueLat,
		"venue_lon":  q.VenueLon,
		"audience":   audience,
		"event_type": strings.ToLower(q.EventType),
	}

	// Marshalling a map sorts keys, so the digest is deterministic.
	data, _ := json.Marshal(normalized)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
