package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVOptions configures CSV rendering.
type CSVOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
}

// WriteCSV streams a document as CSV.
func WriteCSV(w io.Writer, doc *Document, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if len(doc.Headers) > 0 {
		if err := cw.Write(doc.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range doc.Records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes a document as CSV under dir, creating the directory if
// needed. Returns the full path written.
func WriteCSVFile(dir string, doc *Document, logger *slog.Logger) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	fullPath := filepath.Join(dir, doc.Name+".csv")

	if logger != nil {
		logger.Info("writing CSV export",
			slog.String("path", fullPath),
			slog.Int("record_count", len(doc.Records)))
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, doc, CSVOptions{BOMPrefix: true}); err != nil {
		return "", err
	}
	return fullPath, nil
}
