// Package report renders measurements as spreadsheet exports.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/quality"
)

// Sheet names of the exported workbook.
const (
	DataSheet    = "Measurements"
	SummarySheet = "Summary"
)

// ContentType is the MIME type of the bytes returned by Workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var dataHeaders = []string{"ID", "Date", "Group", "Shift", "Line", "Suhu (°C)", "Berat (kg)", "Kualitas"}

var columnWidths = []float64{8, 22, 14, 8, 8, 12, 12, 12}

// Workbook builds an XLSX file with the records in the given order on the
// first sheet and their aggregate on the second.
func Workbook(records []model.Measurement) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(DataSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	rejectStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create reject style: %w", err)
	}

	if err := writeRow(f, DataSheet, 1, toRow(dataHeaders)); err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(dataHeaders), 1)
	if err := f.SetCellStyle(DataSheet, "A1", last, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	for i, w := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(DataSheet, col, col, w); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, m := range records {
		row := i + 2
		values := []any{m.ID, m.Date, m.Group, m.Shift, m.Line, m.Suhu, m.Berat, string(m.Kualitas)}
		if err := writeRow(f, DataSheet, row, values); err != nil {
			f.Close()
			return nil, err
		}
		if m.IsReject() {
			cell, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(DataSheet, cell, cell, rejectStyle); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to style reject at row %d: %w", row, err)
			}
		}
	}

	if err := f.SetPanes(DataSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	if err := writeSummary(f, records, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, records []model.Measurement, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	s := quality.Aggregate(records)
	rows := [][]any{
		{"Total", s.Total},
		{"OK", s.OKCount},
		{"NOT OK", s.RejectCount},
		{"Reject rate (%)", s.RejectRatePercent},
		{},
		{"Line", "Total", "OK", "NOT OK", "Reject rate (%)"},
	}
	for _, ls := range quality.AggregateByLine(records) {
		rows = append(rows, []any{ls.Line, ls.Total, ls.OKCount, ls.RejectCount, ls.RejectRatePercent})
	}

	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if err := writeRow(f, SummarySheet, i+1, r); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A6", "E6", headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 18)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toRow(s []string) []any {
	row := make([]any, len(s))
	for i, v := range s {
		row[i] = v
	}
	return row
}
