package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jpfrost94/universal-text-extractor/joblog"
)

// Spreadsheet extracts tabular text from CSV, XLSX, XLS and ODS files.
// CSV parses directly into pipe-delimited lines; workbook formats
// produce one section per sheet.
func Spreadsheet(ctx context.Context, path, tag string) (string, joblog.Log) {
	var lg joblog.Log

	if tag == "csv" {
		lg.Infof("Processing CSV file")
		text, err := csvRows(path)
		if err != nil {
			lg.Warnf("CSV extraction failed: %v", err)
			lg.Warnf("All spreadsheet extraction methods failed")
			return PlaceholderSheetFailed, lg
		}
		lg.Infof("Successfully extracted data from CSV")
		return text, lg
	}

	var strategies []strategy
	switch tag {
	case "xlsx", "xls":
		strategies = append(strategies, strategy{"excelize", func() (string, error) { return excelSheets(path) }})
	case "ods":
		strategies = append(strategies, strategy{"odf table parse", func() (string, error) { return odfTables(path) }})
	}

	if text, ok := runWaterfall(&lg, strategies); ok {
		return text, lg
	}

	lg.Warnf("All spreadsheet extraction methods failed")
	switch tag {
	case "xlsx", "xls", "ods":
		return fmt.Sprintf("[Could not extract data from %s file. Required libraries not available or file is corrupted/protected.]", strings.ToUpper(tag)), lg
	default:
		return PlaceholderSheetFailed, lg
	}
}

// csvRows renders each CSV record as a pipe-delimited line, so the
// original cells round-trip through a split on " | ".
func csvRows(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are data, not errors

	var sb strings.Builder
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parsing CSV: %w", err)
	}
	for _, row := range records {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// excelSheets reads every sheet of a workbook into a marked section of
// pipe-delimited rows.
func excelSheets(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var sections []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "--- Sheet: %s ---\n", sheet)
		for _, row := range rows {
			sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		sections = append(sections, sb.String())
	}

	if len(sections) == 0 {
		return "", nil
	}
	return strings.Join(sections, "\n"), nil
}
