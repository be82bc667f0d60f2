package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zone-recommender/internal/domain"
)

func TestEventQuery_Hash(t *testing.T) {
	base := domain.EventQuery{
		Name:           "Jazz Night",
		Date:           "2026-01-05",
		Time:           "18:00",
		VenueLat:       38.88,
		VenueLon:       -77.10,
		TargetAudience: []string{"young-professionals", "jazz-fans"},
		EventType:      "concert",
	}

	t.Run("equivalent queries collide", func(t *testing.T) {
		same := base
		same.Name = "  JAZZ NIGHT "
		same.TargetAudience = []string{"Jazz-Fans", " young-professionals"}
		same.EventType = "Concert"

		assert.Equal(t, base.Hash(), same.Hash())
	})

	t.Run("session and period do not affect the key", func(t *testing.T) {
		other := base
		other.SessionID = "abc"
		other.TimePeriod = domain.PeriodMorning

		assert.Equal(t, base.Hash(), other.Hash())
	})

	t.Run("different events get different keys", func(t *testing.T) {
		other := base
		other.VenueLat = 38.89

		assert.NotEqual(t, base.Hash(), other.Hash())
	})

	t.Run("hash is stable across calls", func(t *testing.T) {
		assert.Equal(t, base.Hash(), base.Hash())
	})
}

func TestEventQuery_ResolvedPeriod(t *testing.T) {
	t.Run("explicit period wins over the event time", func(t *testing.T) {
		q := domain.EventQuery{Time: "08:30", TimePeriod: domain.PeriodEvening}
		assert.Equal(t, domain.PeriodEvening, q.ResolvedPeriod())
	})

	t.Run("time of day maps to its bucket", func(t *testing.T) {
		cases := map[string]domain.TimePeriod{
			"06:00": domain.PeriodMorning,
			"10:59": domain.PeriodMorning,
			"11:00": domain.PeriodLunch,
			"13:30": domain.PeriodLunch,
			"14:00": domain.PeriodEvening,
			"18:00": domain.PeriodEvening,
			"02:00": domain.PeriodEvening,
		}
		for tm, want := range cases {
			q := domain.EventQuery{Time: tm}
			assert.Equal(t, want, q.ResolvedPeriod(), "time %s", tm)
		}
	})

	t.Run("unparseable time defaults to evening", func(t *testing.T) {
		q := domain.EventQuery{Time: "soonish"}
		assert.Equal(t, domain.PeriodEvening, q.ResolvedPeriod())
	})
}
