// Package report writes sweep results as JSON, HTML and Prometheus textfile
// reports, and compares JSON reports produced by separate runs.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
)

// Document is the JSON form of a sweep result.
type Document struct {
	*engine.Result

	// Error is the first failure of the sweep, if any
	Error string `json:"error,omitempty"`
}

// NewDocument wraps result for encoding.
func NewDocument(result *engine.Result) *Document {
	doc := &Document{Result: result}
	if result.Error != nil {
		doc.Error = result.Error.Error()
	}
	return doc
}

// MarshalJSONReport encodes result as an indented JSON document.
func MarshalJSONReport(result *engine.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	data, err := json.MarshalIndent(NewDocument(result), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes the JSON report of result to path.
func WriteJSON(result *engine.Result, path string) error {
	data, err := MarshalJSONReport(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}
