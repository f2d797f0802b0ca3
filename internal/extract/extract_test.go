package extract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"turnical/internal/grid"
)

func TestFromUploadCSV(t *testing.T) {
	t.Run("ragged rows are accepted", func(t *testing.T) {
		csv := "gen 2024,1,2,3\nRossi Mario,d20,FER\nBianchi Anna,g9v\n"
		table, err := FromUpload("turni.csv", []byte(csv))
		require.NoError(t, err)

		require.Len(t, table, 3)
		assert.Equal(t, []string{"gen 2024", "1", "2", "3"}, []string(table[0]))
		assert.Equal(t, []string{"Bianchi Anna", "g9v"}, []string(table[2]))
	})

	t.Run("blank rows dropped", func(t *testing.T) {
		csv := "gen 2024,1\n,\nRossi Mario,d20\n"
		table, err := FromUpload("turni.csv", []byte(csv))
		require.NoError(t, err)
		require.Len(t, table, 2)
		assert.Equal(t, "Rossi Mario", table[1][0])
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := FromUpload("turni.csv", nil)
		assert.ErrorIs(t, err, grid.ErrEmptyDocument)
	})
}

func TestFromUploadWorkbook(t *testing.T) {
	buildWorkbook := func(t *testing.T, rows [][]any) []byte {
		t.Helper()
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()

		sheet := f.GetSheetName(0)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}

		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))
		return buf.Bytes()
	}

	t.Run("first sheet rows", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{
			{"Turni feb-24", "1", "2"},
			{"Rossi Mario", "d20", "FER"},
		})

		table, err := FromUpload("turni.xlsx", data)
		require.NoError(t, err)
		require.Len(t, table, 2)
		assert.Equal(t, "Turni feb-24", table[0][0])
		assert.Equal(t, "d20", table[1][1])
	})

	t.Run("workbook with only blank cells", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{{"", ""}})
		_, err := FromUpload("turni.xlsx", data)
		assert.ErrorIs(t, err, grid.ErrEmptyDocument)
	})
}

func TestFromUploadUnsupported(t *testing.T) {
	_, err := FromUpload("turni.pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
