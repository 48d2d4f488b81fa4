/*
Package csv reads and writes rows of categorical values as CSV.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sapling-ml/sapling/dataset"
)

/*
ReadRows takes an io.Reader for a CSV stream and a header boolean and
returns the rows parsed from the reader. When header is true, the first
record is returned apart as the header. Every record must have the same
number of fields as the first one, otherwise an error with the offending
line is returned.
*/
func ReadRows(reader io.Reader, header bool) ([]string, []dataset.Row, error) {
	var rows []dataset.Row
	h, err := ReadRowsByRow(reader, header, func(_ int, r dataset.Row) (bool, error) {
		rows = append(rows, r)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return h, rows, nil
}

/*
ReadRowsByRow takes an io.Reader for a CSV stream, a header boolean and a
lambda function on an integer and a dataset.Row that returns a boolean value.
It parses the rows from the reader and for each it calls the lambda function
with its index and the row as parameters. If the lambda function returns true,
it will continue processing the next row, otherwise it will stop. An error is
returned if something goes wrong when reading or parsing a row.
*/
func ReadRowsByRow(reader io.Reader, header bool, lambda func(int, dataset.Row) (bool, error)) ([]string, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = 0
	r.TrimLeadingSpace = true
	var h []string
	l := 1
	if header {
		record, err := r.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading header: %v", err)
		}
		h = record
		l++
	}
	for i := 0; ; i, l = i+1, l+1 {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %v", l, err)
		}
		ok, err := lambda(i, dataset.Row(record))
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return h, nil
}

/*
ReadFile takes a filepath string and a header boolean, opens the file to
which the filepath points to and uses ReadRows to return the header and rows
read from it. If the filepath is "" or "-", os.Stdin is read instead.
*/
func ReadFile(filepath string, header bool) ([]string, []dataset.Row, error) {
	var f *os.File
	var err error
	if filepath == "" || filepath == "-" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening CSV file: %v", err)
		}
		defer f.Close()
	}
	h, rows, err := ReadRows(f, header)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return h, rows, err
}

/*
WriteRows takes an io.Writer, a header and a slice of rows and dumps
them to the writer in CSV format. The header is skipped when empty. It
returns an error if something went wrong when writing to the writer.
*/
func WriteRows(writer io.Writer, header []string, rows []dataset.Row) error {
	w := csv.NewWriter(writer)
	if len(header) > 0 {
		err := w.Write(header)
		if err != nil {
			return fmt.Errorf("writing CSV header: %v", err)
		}
	}
	for i, r := range rows {
		err := w.Write(r)
		if err != nil {
			return fmt.Errorf("writing CSV row %d: %v", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}

/*
WriteFile takes a filepath, a header and a slice of rows and writes them
as CSV on the file, creating or truncating it. If the filepath is "" or
"-" the rows are written onto os.Stdout.
*/
func WriteFile(filepath string, header []string, rows []dataset.Row) error {
	if filepath == "" || filepath == "-" {
		return WriteRows(os.Stdout, header, rows)
	}
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	err = WriteRows(f, header, rows)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
