package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/dataset/csv"
	"github.com/sapling-ml/sapling/dataset/mongodataset"
	"github.com/sapling-ml/sapling/dataset/sqldataset"
	"github.com/sapling-ml/sapling/dataset/sqldataset/pgadapter"
	"github.com/sapling-ml/sapling/dataset/sqldataset/sqlite3adapter"
)

type sourceKind int

const (
	csvSource sourceKind = iota
	sqlite3Source
	postgreSQLSource
	mongoDBSource
)

func (sk sourceKind) String() string {
	switch sk {
	case sqlite3Source:
		return "sqlite3"
	case postgreSQLSource:
		return "postgresql"
	case mongoDBSource:
		return "mongodb"
	}
	return "csv"
}

/*
source is a location rows are read from: a PostgreSQL or MongoDB connection
URL, a path to an SQLite3 (.db) file or a path to a CSV file. An empty path
or "-" reads CSV from STDIN.
*/
type source struct {
	location string
	table    string
	header   bool
	target   int
}

func (s *source) kind() sourceKind {
	switch {
	case strings.HasPrefix(s.location, "postgresql://"), strings.HasPrefix(s.location, "postgres://"):
		return postgreSQLSource
	case strings.HasPrefix(s.location, "mongodb://"):
		return mongoDBSource
	case strings.HasSuffix(s.location, ".db"):
		return sqlite3Source
	}
	return csvSource
}

func (s *source) name() string {
	if s.location == "" || s.location == "-" {
		return "STDIN"
	}
	return s.location
}

func (s *source) rows(ctx context.Context) ([]string, []dataset.Row, error) {
	zerolog.Ctx(ctx).Info().
		Str("source", s.name()).
		Str("kind", s.kind().String()).
		Msg("Reading rows")
	switch s.kind() {
	case postgreSQLSource:
		a, err := pgadapter.New(s.location)
		if err != nil {
			return nil, nil, err
		}
		defer a.Close()
		return sqldataset.Read(ctx, a, s.table)
	case sqlite3Source:
		a, err := sqlite3adapter.New(s.location)
		if err != nil {
			return nil, nil, err
		}
		defer a.Close()
		return sqldataset.Read(ctx, a, s.table)
	case mongoDBSource:
		session, err := mongodataset.Dial(s.location)
		if err != nil {
			return nil, nil, err
		}
		defer session.Close()
		rows, err := mongodataset.Read(ctx, session, s.table)
		return nil, rows, err
	}
	return csv.ReadFile(s.location, s.header)
}

// dataset reads the rows of the source and builds a dataset labelled by the target column
func (s *source) dataset(ctx context.Context) (*dataset.Dataset, error) {
	_, rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}
	rows, err = dataset.MoveToLast(rows, s.target)
	if err != nil {
		return nil, err
	}
	return dataset.NewFromLastColumn(rows)
}

/*
write stores the rows on the source location. CSV files get the header,
if any, as first line. Database sources get a table with the given
columns.
*/
func (s *source) write(ctx context.Context, header, columns []string, rows []dataset.Row) error {
	zerolog.Ctx(ctx).Info().
		Str("destination", s.name()).
		Str("kind", s.kind().String()).
		Int("rows", len(rows)).
		Msg("Writing rows")
	switch s.kind() {
	case postgreSQLSource:
		a, err := pgadapter.New(s.location)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = sqldataset.Write(ctx, a, s.table, columns, rows)
		return err
	case sqlite3Source:
		a, err := sqlite3adapter.New(s.location)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = sqldataset.Write(ctx, a, s.table, columns, rows)
		return err
	case mongoDBSource:
		session, err := mongodataset.Dial(s.location)
		if err != nil {
			return err
		}
		defer session.Close()
		_, err = mongodataset.Write(ctx, session, s.table, rows)
		return err
	}
	return csv.WriteFile(s.location, header, rows)
}

/*
columnNames returns the header, or for rows read without one, names after
the column positions with the last column named label.
*/
func columnNames(header []string, rows []dataset.Row) []string {
	if len(header) > 0 || len(rows) == 0 || len(rows[0]) == 0 {
		return header
	}
	width := len(rows[0])
	columns := make([]string, width)
	for i := 0; i < width-1; i++ {
		columns[i] = fmt.Sprintf("attribute%d", i)
	}
	columns[width-1] = "label"
	return columns
}
