package grid

import (
	"strconv"
	"strings"

	"turnical/internal/model"
)

// durationHours maps the duration letter of a timed-shift token to its
// length in hours. The letter is the first character of the token; the rest
// is the half-hour slot index of the start time.
var durationHours = map[byte]int{
	'd': 4,
	'e': 5,
	'f': 6,
	'g': 7,
	'h': 8,
}

// specialCodes is the closed set of all-day flag tokens. It is the single
// source of truth shared by normalization and calendar synthesis.
var specialCodes = map[string]bool{
	"R1":   true,
	"R2":   true,
	"FER":  true,
	"R0":   true,
	"OFF":  true,
	"FEST": true,
}

// IsSpecialCode reports whether tag is one of the fixed all-day codes.
func IsSpecialCode(tag string) bool {
	return specialCodes[strings.ToUpper(tag)]
}

// Translate classifies one raw cell into its canonical shift. It is a pure
// function of the cleaned cell text: lowercase, stripped to [a-z0-9].
//
// Token grammar, in tie-break order:
//   - blank cell                      -> ShiftEmpty
//   - special code (fer, r1, ...)     -> ShiftSpecial
//   - duration letter + slot ("d20")  -> ShiftTimed, slot in half hours
//   - letter with no digits ("d")     -> ShiftUnparsed
//   - unparseable slot number         -> ShiftInvalid
//   - anything else                   -> ShiftUnparsed
func Translate(raw string) model.Shift {
	cleaned := cleanCell(raw)
	if cleaned == "" {
		return model.Shift{Kind: model.ShiftEmpty}
	}

	upper := strings.ToUpper(cleaned)
	if specialCodes[upper] {
		return model.Shift{Kind: model.ShiftSpecial, Tag: upper}
	}

	if len(cleaned) >= 2 {
		if dur, ok := durationHours[cleaned[0]]; ok {
			// Trailing letters after the slot number are noise from the
			// scan ("d20v" reads as "d20").
			digits := keepDigits(cleaned[1:])
			if digits == "" {
				return model.Shift{Kind: model.ShiftUnparsed, Tag: upper}
			}
			slot, err := strconv.Atoi(digits)
			if err != nil {
				return model.Shift{Kind: model.ShiftInvalid}
			}
			return model.Shift{
				Kind:          model.ShiftTimed,
				StartHour:     slot / 2,
				StartMinute:   (slot % 2) * 30,
				DurationHours: dur,
			}
		}
	}

	return model.Shift{Kind: model.ShiftUnparsed, Tag: upper}
}

// cleanCell lowercases raw and strips every character outside [a-z0-9].
func cleanCell(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
