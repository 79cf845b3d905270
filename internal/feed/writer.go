// Package feed serializes extracted news records to the output file.
package feed

import (
	"encoding/json"
	"os"
	"path/filepath"

	"mfa-news-fetcher/internal/logger"
	"mfa-news-fetcher/internal/models"
)

// Writer persists record lists as pretty-printed JSON under a fixed output
// directory.
type Writer struct {
	outputDir string
	log       *logger.Logger
}

func NewWriter(outputDir string, log *logger.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		log:       log,
	}
}

// Write creates the output directory if missing and writes records as
// two-space-indented JSON to <outputDir>/<filename>, overwriting any
// existing file. An empty record list produces the literal []. Returns the
// written path.
func (w *Writer) Write(records []models.NewsRecord, filename string) (string, error) {
	if records == nil {
		records = make([]models.NewsRecord, 0)
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", &models.PersistenceError{Path: w.outputDir, Err: err}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", &models.PersistenceError{Path: w.outputDir, Err: err}
	}

	path := filepath.Join(w.outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &models.PersistenceError{Path: path, Err: err}
	}

	w.log.Info("wrote news feed", "path", path, "records", len(records))

	return path, nil
}
