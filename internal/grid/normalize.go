package grid

import (
	"fmt"
	"strings"

	appLog "turnical/internal/log"
	"turnical/internal/model"
)

// Normalize walks the raw table and classifies every (person, day) cell,
// producing the normalized grid for the detected period.
//
// Row 0 is the header and is skipped. A data row needs a usable first cell:
// the person's name is the text before the first comma (print layouts append
// role or badge numbers after it), trimmed. Day d's raw cell is row[d]; a
// short row simply reads as blank from there on.
//
// If the same name appears in multiple rows, later non-blank cells overwrite
// earlier ones; a blank cell never erases a value an earlier row set. This
// last-write-wins policy is deliberate and covered by tests.
func Normalize(table model.RawTable, period model.Period) (*model.Grid, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("normalize: %w", ErrEmptyDocument)
	}

	g := model.NewGrid(period.Days)
	skippedRows := 0

	for i, row := range table {
		if i == 0 {
			continue
		}
		name := personName(row)
		if name == "" {
			skippedRows++
			continue
		}

		for day := 1; day <= period.Days; day++ {
			var raw string
			if day < len(row) {
				raw = row[day]
			}
			s := Translate(raw)
			if s.Kind == model.ShiftEmpty && g.Shift(name, day).Kind != model.ShiftEmpty {
				continue
			}
			g.Set(name, day, s)
		}
	}

	if len(g.Names()) == 0 {
		return nil, fmt.Errorf("normalize: no person rows: %w", ErrEmptyDocument)
	}

	appLog.Info("grid normalized",
		"period", period.String(),
		"people", len(g.Names()),
		"days", period.Days,
		"skipped_rows", skippedRows,
	)
	return g, nil
}

// personName extracts the person label from a data row, or "" if the row
// has no usable first cell.
func personName(row []string) string {
	if len(row) == 0 {
		return ""
	}
	name := strings.TrimSpace(strings.SplitN(row[0], ",", 2)[0])
	return name
}
