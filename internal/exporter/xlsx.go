package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX streams a document as a single-sheet XLSX workbook. Numeric
// cells are written as numbers so spreadsheet formulas work on the export.
func WriteXLSX(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeRow(f, sheet, 1, doc.Headers, false); err != nil {
		return err
	}
	for i, record := range doc.Records {
		if err := writeRow(f, sheet, i+2, record, true); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeRow writes one row, coercing numeric-looking cells when asked.
func writeRow(f *excelize.File, sheet string, row int, cells []string, coerce bool) error {
	for col, cell := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}

		var value interface{} = cell
		if coerce && cell != "" {
			if n, err := strconv.ParseFloat(cell, 64); err == nil {
				value = n
			}
		}
		if err := f.SetCellValue(sheet, name, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", name, err)
		}
	}
	return nil
}

// WriteXLSXFile writes a document as XLSX under dir. Returns the full path
// written.
func WriteXLSXFile(dir string, doc *Document, logger *slog.Logger) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	fullPath := filepath.Join(dir, doc.Name+".xlsx")

	if logger != nil {
		logger.Info("writing XLSX export",
			slog.String("path", fullPath),
			slog.Int("record_count", len(doc.Records)))
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return fullPath, WriteXLSX(file, doc)
}
