package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
	"github.com/Ross-123/US-Economic-Dashboard/pkg/utils"
)

// SheetName is the worksheet holding the exported observation table.
const SheetName = "Observations"

// WriteCSV writes the table with a Date column followed by one column per
// series. Missing values are written as empty cells.
func WriteCSV(w io.Writer, tbl *timeseries.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Date"}, tbl.Columns...)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(tbl.Columns)+1)
	for i, d := range tbl.Dates {
		record[0] = utils.FormatDate(d)
		for c := range tbl.Columns {
			v := tbl.Values[c][i]
			if math.IsNaN(v) {
				record[c+1] = ""
			} else {
				record[c+1] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table as a single-sheet workbook.
func WriteXLSX(w io.Writer, tbl *timeseries.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(tbl.Columns)+1)
	header = append(header, "Date")
	for _, c := range tbl.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, d := range tbl.Dates {
		row := make([]any, 0, len(tbl.Columns)+1)
		row = append(row, utils.FormatDate(d))
		for c := range tbl.Columns {
			v := tbl.Values[c][i]
			if math.IsNaN(v) {
				row = append(row, nil)
			} else {
				row = append(row, v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
