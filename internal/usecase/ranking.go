package usecase

import (
	"sort"

	"github.com/zone-recommender/internal/domain"
)

// AssembleRanking orders scores by total descending, breaking ties by zone
// ID ascending so equal-scoring zones always appear in the same order.
// Ranks are assigned 1..N after sorting; a positive limit truncates the
// list after ranking.
func AssembleRanking(scores []domain.ZoneScore, limit int) []domain.ZoneScore {
	ranked := make([]domain.ZoneScore, len(scores))
	copy(ranked, scores)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].ZoneID < ranked[j].ZoneID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
