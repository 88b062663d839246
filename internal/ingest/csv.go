package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoRows indicates the input had no data rows beyond the header.
var ErrNoRows = errors.New("ingest: no data rows")

// ErrNoHeader indicates the input was empty.
var ErrNoHeader = errors.New("ingest: empty input, header row required")

// DecodeCSV reads a delimited table into rows. The first record is the
// header; quoting and embedded delimiters follow RFC 4180. Records with
// fewer fields than the header are padded with empty values.
func DecodeCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("ingest: read header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read record: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		rows = append(rows, NewRow(header, record))
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

// DecodeCSVFile opens and decodes a CSV file.
func DecodeCSVFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer file.Close()
	return DecodeCSV(file)
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
