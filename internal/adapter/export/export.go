// Package export writes inspection logs as CSV or XLSX.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/niksmo/qc-logbook/pkg/record"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName = "QC Logs"
)

var ErrUnknownFormat = errors.New("unknown export format")

var Header = []string{
	"ID",
	"Check Date",
	"Shipping Order No",
	"Product ID",
	"Product Name",
	"Inspector",
	"Status",
	"Notes",
	"AI Analysis",
}

func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

func Write(w io.Writer, format string, logs []domain.InspectionLog) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, logs)
	case FormatXLSX:
		return WriteXLSX(w, logs)
	}
	return fmt.Errorf("export.Write: %w: %q", ErrUnknownFormat, format)
}

// WriteCSV writes the header and one line per log. Every log field is
// quoted with inner quotes doubled, since ids and dates come from
// spreadsheet cells and may hold delimiters too.
func WriteCSV(w io.Writer, logs []domain.InspectionLog) error {
	const op = "export.WriteCSV"

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, l := range logs {
		row := record.LogRow(l)
		for i, v := range row {
			row[i] = record.QuoteField(v)
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func WriteXLSX(w io.Writer, logs []domain.InspectionLog) error {
	const op = "export.WriteXLSX"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := setRow(f, 1, Header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, l := range logs {
		if err := setRow(f, i+2, record.LogRow(l)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func setRow(f *excelize.File, rowNo int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &row)
}
