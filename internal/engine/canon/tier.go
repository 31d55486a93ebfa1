package canon

import (
	"regexp"
	"strconv"
)

// Level bands used by the tables
const (
	TierLow       = "1-4"
	TierMid       = "5-10"
	TierHigh      = "11-16"
	TierEpic      = "17-20"
	TierHighSuper = "11-20"
)

var (
	tierPrefix = regexp.MustCompile(`(?i)^(?:stufen?\s*)+`)
	tierRange  = regexp.MustCompile(`(?i)^(\d{1,3})\s*(?:-|bis)\s*(\d{1,3})$`)
	tierSingle = regexp.MustCompile(`^(\d{1,3})$`)

	superBands = map[string]string{
		TierHigh: TierHighSuper,
		TierEpic: TierHighSuper,
	}
)

// Tier canonicalizes a level band such as "Stufe 11 bis 16", "11–16" or a single level "7".
// Input that is not a band is returned cleaned.
func Tier(raw string) string {
	cleaned := tierPrefix.ReplaceAllString(Clean(raw), "")

	if m := tierRange.FindStringSubmatch(cleaned); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		return TierFromBounds(a, b)
	}
	if m := tierSingle.FindStringSubmatch(cleaned); m != nil {
		level, _ := strconv.Atoi(m[1])
		return TierForLevel(level)
	}
	return cleaned
}

// TierFromBounds applies the banding rules to a heading's level range
func TierFromBounds(a, b int) string {
	if a > b {
		a, b = b, a
	}
	switch {
	case a >= 1 && b <= 4:
		return TierLow
	case (a == 5 || a == 6) && b == 10:
		return TierMid
	case a == 11 && b == 16:
		return TierHigh
	case a == 17 && b == 20:
		return TierEpic
	case a == 11 && b == 20:
		return TierHighSuper
	default:
		return strconv.Itoa(a) + "-" + strconv.Itoa(b)
	}
}

// TierForLevel returns the narrow band containing a character level
func TierForLevel(level int) string {
	switch {
	case level >= 1 && level <= 4:
		return TierLow
	case level >= 5 && level <= 10:
		return TierMid
	case level >= 11 && level <= 16:
		return TierHigh
	case level >= 17 && level <= 20:
		return TierEpic
	default:
		return strconv.Itoa(level)
	}
}

// SuperBand returns the wide tier a sub-band falls back to
func SuperBand(tier string) (string, bool) {
	super, ok := superBands[tier]
	return super, ok
}
