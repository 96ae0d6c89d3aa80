package fileio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVOptions tune the CSV dialect. The zero value is comma separated with
// "-quoted fields and a variable number of fields per row.
type CSVOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// Comment, when set, marks lines to skip on read.
	Comment rune
	// FieldsPerRecord follows encoding/csv: 0 uses the first row, -1 disables the check.
	// The zero value of CSVOptions maps to -1.
	FieldsPerRecord int
	// Strict enables FieldsPerRecord checking with the value above.
	Strict bool
}

func (o CSVOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// ReadCSV loads every row of file.
func (f *IO) ReadCSV(file string, opts CSVOptions) ([][]string, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("fileio: read %s: %w", file, err)
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = opts.delimiter()
	r.Comment = opts.Comment
	r.FieldsPerRecord = -1
	if opts.Strict {
		r.FieldsPerRecord = opts.FieldsPerRecord
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("fileio: parse csv %s: %w", file, err)
	}
	return rows, nil
}

// WriteCSV replaces file with rows.
func (f *IO) WriteCSV(rows [][]string, file string, opts CSVOptions) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = opts.delimiter()
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: csv: %v", ErrBadData, err)
	}
	return writeFileAtomic(file, buf.Bytes(), f.perm())
}
