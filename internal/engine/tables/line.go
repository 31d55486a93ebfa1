package tables

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/canon"
)

// LineKind classifies one line of table source text
type LineKind int

const (
	// LineBlank is an empty line. It neither opens nor closes an entry.
	LineBlank LineKind = iota
	// LineHeading switches the category and tier, e.g. "Wald (Stufe 1-4)"
	LineHeading
	// LineRangeStart opens a new entry, e.g. "05-12 Ein Wolf taucht auf"
	LineRangeStart
	// LineMarker announces the die, e.g. "W100", and is skipped
	LineMarker
	// LineContinuation is appended to the pending entry
	LineContinuation
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineHeading:
		return "heading"
	case LineRangeStart:
		return "range"
	case LineMarker:
		return "marker"
	default:
		return "continuation"
	}
}

// Line is a classified source line. Only the fields of its Kind are set.
type Line struct {
	Kind LineKind

	// LineHeading
	CategoryText string
	TierLow      int
	TierHigh     int

	// LineRangeStart
	Low  int
	High int

	// LineRangeStart remainder or LineContinuation text
	Text string
}

var (
	headingPattern = regexp.MustCompile(`(?i)^(.*?\S)\s*\(\s*stufen?\s*(\d{1,2})\s*(?:-|bis)\s*(\d{1,2})\s*\)\s*:?$`)
	rangePattern   = regexp.MustCompile(`(?i)^(\d{2})(?:\s*(?:-|bis)\s*(\d{2}))?(?:$|([\s.:)].*)$)`)
	markerPattern  = regexp.MustCompile(`(?i)^(?:wurf\s*:?\s*)?(?:\d*\s*[wd]\s*(?:\d+|%))(?:\s*wurf)?\s*:?$`)
)

// Classify normalizes raw and decides its kind. Heading beats range start, range start
// beats marker, and anything else is continuation text.
func Classify(raw string) Line {
	text := canon.Clean(raw)
	if text == "" {
		return Line{Kind: LineBlank}
	}

	if m := headingPattern.FindStringSubmatch(text); m != nil {
		low, _ := strconv.Atoi(m[2])
		high, _ := strconv.Atoi(m[3])
		return Line{Kind: LineHeading, CategoryText: m[1], TierLow: low, TierHigh: high}
	}

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		low := rollBound(m[1])
		high := low
		if m[2] != "" {
			high = rollBound(m[2])
		}
		if low > high {
			low, high = high, low
		}
		rest := strings.TrimSpace(strings.TrimLeft(m[3], " .:)"))
		return Line{Kind: LineRangeStart, Low: low, High: high, Text: rest}
	}

	if markerPattern.MatchString(text) {
		return Line{Kind: LineMarker}
	}

	return Line{Kind: LineContinuation, Text: text}
}

// rollBound reads a two digit bound where "00" stands for 100
func rollBound(s string) int {
	if s == "00" {
		return RollDomain
	}
	n, _ := strconv.Atoi(s)
	return n
}
