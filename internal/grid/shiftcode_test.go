package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"turnical/internal/model"
)

func TestTranslate(t *testing.T) {
	t.Run("blank cells", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\t", " - ", "--"} {
			s := Translate(raw)
			assert.Equal(t, model.ShiftEmpty, s.Kind, "raw=%q", raw)
			assert.Equal(t, "", s.Render())
		}
	})

	t.Run("special codes regardless of case and noise", func(t *testing.T) {
		for _, raw := range []string{"FER", "fer", " Fer ", "r1", "R2", "r0", "off", "FEST", "f.e.r"} {
			s := Translate(raw)
			assert.Equal(t, model.ShiftSpecial, s.Kind, "raw=%q", raw)
		}
		assert.Equal(t, "FER", Translate("fer").Tag)
		assert.Equal(t, "OFF", Translate("off").Render())
	})

	t.Run("timed shift d20 is 10:00 for 4 hours", func(t *testing.T) {
		s := Translate("d20")
		assert.Equal(t, model.ShiftTimed, s.Kind)
		assert.Equal(t, 10, s.StartHour)
		assert.Equal(t, 0, s.StartMinute)
		assert.Equal(t, 4, s.DurationHours)
		assert.Equal(t, "10:00 (4h)", s.Render())
	})

	t.Run("trailing letters are scan noise", func(t *testing.T) {
		s := Translate("g9v")
		assert.Equal(t, model.ShiftTimed, s.Kind)
		assert.Equal(t, 4, s.StartHour)
		assert.Equal(t, 30, s.StartMinute)
		assert.Equal(t, 7, s.DurationHours)
		assert.Equal(t, "04:30 (7h)", s.Render())
	})

	t.Run("odd slots start on the half hour", func(t *testing.T) {
		s := Translate("e17")
		assert.Equal(t, "08:30 (5h)", s.Render())
	})

	t.Run("duration letters map d..h to 4..8 hours", func(t *testing.T) {
		for letter, hours := range map[string]int{"d": 4, "e": 5, "f": 6, "g": 7, "h": 8} {
			s := Translate(letter + "12")
			assert.Equal(t, model.ShiftTimed, s.Kind)
			assert.Equal(t, hours, s.DurationHours, "letter=%s", letter)
			assert.Equal(t, 6, s.StartHour)
		}
	})

	t.Run("letter without digits falls back to unparsed", func(t *testing.T) {
		s := Translate("d")
		assert.Equal(t, model.ShiftUnparsed, s.Kind)
		assert.Equal(t, "D", s.Render())

		s = Translate("dx")
		assert.Equal(t, model.ShiftUnparsed, s.Kind)
		assert.Equal(t, "DX", s.Render())
	})

	t.Run("unknown token kept uppercased", func(t *testing.T) {
		s := Translate("x12")
		assert.Equal(t, model.ShiftUnparsed, s.Kind)
		assert.Equal(t, "X12", s.Tag)
	})

	t.Run("pure function of cleaned text", func(t *testing.T) {
		assert.Equal(t, Translate("d20"), Translate(" D-2.0 "))
		assert.Equal(t, Translate("fer"), Translate("F E R"))
	})
}

func TestIsSpecialCode(t *testing.T) {
	assert.True(t, IsSpecialCode("FER"))
	assert.True(t, IsSpecialCode("fest"))
	assert.False(t, IsSpecialCode("d20"))
	assert.False(t, IsSpecialCode(""))
}
