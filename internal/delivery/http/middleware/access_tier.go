package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccessTierKey is the local key under which the resolved result cap is
// stored for handlers.
const AccessTierKey = "access_tier_limit"

// Result caps per access tier. Zero means uncapped.
const (
	freeTierLimit    = 3
	premiumTierLimit = 10
	internalNoLimit  = 0
)

// AccessTier resolves the X-Access-Tier header into a per-request result
// cap. Unknown or absent tiers get the free cap.
func AccessTier() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := freeTierLimit
		switch strings.ToLower(c.Get("X-Access-Tier")) {
		case "premium":
			limit = premiumTierLimit
		case "internal":
			limit = internalNoLimit
		}
		c.Locals(AccessTierKey, limit)
		return c.Next()
	}
}

// TierLimit reads the result cap set by AccessTier. Callers requesting
// fewer results than the cap keep their own limit.
func TierLimit(c *fiber.Ctx, requested int) int {
	tierCap, _ := c.Locals(AccessTierKey).(int)
	if tierCap <= 0 {
		return requested
	}
	if requested <= 0 || requested > tierCap {
		return tierCap
	}
	return requested
}
