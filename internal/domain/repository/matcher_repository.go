package repository

import "context"

// MatcherRepository is the external semantic-matching service. It is
// rate-limited and slow; callers must bound every call with a deadline.
type MatcherRepository interface {
	// Match returns the semantic match strength between the query tags and
	// the candidate tags, in [0,1].
	Match(ctx context.Context, queryTags, candidateTags []string) (float64, error)
}
