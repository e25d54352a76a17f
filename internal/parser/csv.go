package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/ragchunk/internal/document"
)

// CSVParser handles CSV files. Rows are grouped into batches, each
// rendered under a heading line so batches map onto sections.
type CSVParser struct{}

const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return document.Document{}, fmt.Errorf("parse csv: %w", err)
	}

	doc := document.Document{
		SourceID: stem(filename),
		Title:    stem(filename),
	}
	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var out strings.Builder
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := i + csvBatchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}

		writeBlock(&out, fmt.Sprintf("# Rows %d-%d", i+2, end+1)) // 1-indexed, skip header

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}
		writeBlock(&out, strings.TrimRight(text.String(), "\n"))
	}

	doc.Text = strings.TrimSpace(out.String())
	return doc, nil
}
