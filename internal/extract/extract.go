// Package extract turns an uploaded schedule export into the raw cell table
// the normalization pipeline consumes. Scanned PDFs are expected to be
// exported to XLSX or CSV first; this package makes no assumption about the
// table beyond "rows of text cells, first row is the header".
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"turnical/internal/grid"
	appLog "turnical/internal/log"
	"turnical/internal/model"
)

// FromUpload extracts a RawTable from an uploaded file, dispatching on the
// filename extension. Supported: .xlsx/.xlsm workbooks and .csv exports.
// An empty or all-blank result fails with grid.ErrEmptyDocument.
func FromUpload(filename string, data []byte) (model.RawTable, error) {
	var (
		table model.RawTable
		err   error
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		table, err = fromWorkbook(data)
	case ".csv":
		table, err = fromCSV(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q (use .xlsx or .csv)", ext)
	}
	if err != nil {
		return nil, err
	}

	table = dropBlankRows(table)
	if len(table) == 0 {
		return nil, fmt.Errorf("extract %s: %w", filename, grid.ErrEmptyDocument)
	}

	appLog.Info("table extracted", "file", filename, "rows", len(table))
	return table, nil
}

func fromWorkbook(data []byte) (model.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook: %w", grid.ErrEmptyDocument)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return model.RawTable(rows), nil
}

func fromCSV(data []byte) (model.RawTable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	// Schedule exports are ragged; do not enforce a uniform column count.
	r.FieldsPerRecord = -1

	var table model.RawTable
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		table = append(table, record)
	}
	return table, nil
}

// dropBlankRows removes rows whose every cell is blank, mirroring what the
// upstream scan tools leave behind between grid sections.
func dropBlankRows(table model.RawTable) model.RawTable {
	out := table[:0]
	for _, row := range table {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}
