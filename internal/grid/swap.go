package grid

import (
	"fmt"
	"strconv"
	"strings"

	"turnical/internal/model"
)

// MatchSwap finds every person other than requester whose shift on day
// equals the requested one. timeStr is "HH:MM" and durLabel has the form
// "Nh" (case does not matter); the comparison key is the rendered grid form
// "HH:MM (Nh)" with whitespace removed and everything uppercased, so "08:30"
// + "6H" matches a cell rendered as "08:30 (6h)".
//
// A day that is not an integer in 1..g.Days fails with ErrInvalidQuery
// rather than returning an empty result.
func MatchSwap(g *model.Grid, requester, day, timeStr, durLabel string) ([]string, error) {
	dayNum, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return nil, fmt.Errorf("day %q: %w", day, ErrInvalidQuery)
	}
	if dayNum < 1 || dayNum > g.Days {
		return nil, fmt.Errorf("day %d out of range 1..%d: %w", dayNum, g.Days, ErrInvalidQuery)
	}

	want := normalizeShiftKey(fmt.Sprintf("%s (%s)", timeStr, durLabel))

	matches := []string{}
	for _, name := range g.Names() {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(requester)) {
			continue
		}
		if normalizeShiftKey(g.Shift(name, dayNum).Render()) == want {
			matches = append(matches, name)
		}
	}
	return matches, nil
}

// normalizeShiftKey strips all whitespace and uppercases, the insensitive
// form both sides of a swap comparison are reduced to.
func normalizeShiftKey(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
