package classifier

import (
	"strconv"
	"strings"

	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

// Product line prefixes, in dispatch order.
const (
	PrefixPhone  = "iPhone"
	PrefixTablet = "iPad"
	PrefixMedia  = "iPod"
)

// Model identifier breakpoints.
const (
	// phoneMiddleModelID is the phone model identifier that maps to Middle.
	// Model identifiers are not marketing generations: "iPhone13,x" is an
	// iPhone 12 family device.
	phoneMiddleModelID = 13

	tabletMiddleModelID = 7

	// mediaMiddleModelID is the first portable media identifier that maps
	// to Middle. That line never reaches High.
	mediaMiddleModelID = 9
)

// productLine is one Apple product family and its tier mapping.
type productLine struct {
	prefix string
	route  Route
	tierOf func(id int, rule TabletRule) tier.Tier
}

// productLines is checked in order; the first matching prefix wins.
var productLines = []productLine{
	{prefix: PrefixPhone, route: RouteApplePhone, tierOf: phoneTier},
	{prefix: PrefixTablet, route: RouteAppleTablet, tierOf: tabletTier},
	{prefix: PrefixMedia, route: RouteAppleMedia, tierOf: mediaTier},
}

// ParseModelID extracts the leading model number from a model string whose
// product prefix has been recognized: "iPhone13,2" with prefix "iPhone"
// yields 13. The second result is false when the remainder is not numeric.
func ParseModelID(model, prefix string) (int, bool) {
	remainder := strings.TrimPrefix(model, prefix)
	first, _, _ := strings.Cut(remainder, ",")

	id, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, false
	}
	return id, true
}

func phoneTier(id int, _ TabletRule) tier.Tier {
	switch {
	case id < phoneMiddleModelID:
		return tier.Low
	case id == phoneMiddleModelID:
		return tier.Middle
	default:
		return tier.High
	}
}

func tabletTier(id int, rule TabletRule) tier.Tier {
	if rule == TabletAlwaysLow {
		return tier.Low
	}

	switch {
	case id < tabletMiddleModelID:
		return tier.Low
	case id == tabletMiddleModelID:
		return tier.Middle
	default:
		return tier.High
	}
}

func mediaTier(id int, _ TabletRule) tier.Tier {
	if id < mediaMiddleModelID {
		return tier.Low
	}
	return tier.Middle
}
