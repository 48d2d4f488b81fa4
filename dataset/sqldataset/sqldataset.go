/*
Package sqldataset reads and writes rows of categorical values from and to
tables on SQL databases.

A table holds one TEXT column per field of the rows plus an "id" primary key
that keeps the insertion order. The id column is never part of the rows read.
NULL values are read as "?", the unknown value marker.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sapling-ml/sapling/dataset"
)

const (
	// IDColumn is the name of the primary key column of the tables
	IDColumn = "id"

	// Unknown is the value NULL columns are read as
	Unknown = "?"

	// MaxRowInsertionsPerStatement is the maximum number
	// of rows that are added with a single insert command
	// by Write. Adding more will result in making more insertion
	// commands.
	MaxRowInsertionsPerStatement = 10
)

/*
Adapter is an interface providing the database specific
methods needed to read and write rows on tables.
*/
type Adapter interface {
	// DB returns the connection pool the adapter works on
	DB() *sql.DB
	// ColumnNames returns the names of the columns of the
	// given table in their definition order
	ColumnNames(ctx context.Context, table string) ([]string, error)
	// CreateTableStmt returns the statement that creates the
	// given table with the given columns if it does not exist
	CreateTableStmt(table string, columns []string) string
	// Placeholder returns the bind parameter for the i-th value
	// of a statement, starting at 1
	Placeholder(i int) string
	Close() error
}

/*
Read takes a context, an Adapter and a table name and returns the rows
stored on the table ordered by id, or an error if the table cannot be
queried.
*/
func Read(ctx context.Context, a Adapter, table string) ([]string, []dataset.Row, error) {
	var rows []dataset.Row
	header, err := ReadByRow(ctx, a, table, func(_ int, r dataset.Row) (bool, error) {
		rows = append(rows, r)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}

/*
ReadByRow takes a context, an Adapter, a table name and a lambda function
on an integer and a dataset.Row that returns a boolean value. The lambda is
called with every row on the table and its index until it returns false or
an error. The names of the columns read are returned.
*/
func ReadByRow(ctx context.Context, a Adapter, table string, lambda func(int, dataset.Row) (bool, error)) ([]string, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	columns, err := a.ColumnNames(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of table %s: %v", table, err)
	}
	columns, ordered := withoutID(columns)
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s has no columns to read", table)
	}
	query := SelectStmt(table, columns, ordered)
	rows, err := a.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %v", table, err)
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		values := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		err = rows.Scan(dest...)
		if err != nil {
			return nil, fmt.Errorf("scanning row %d of table %s: %v", j+1, table, err)
		}
		ok, err := lambda(j, toRow(values))
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return columns, nil
}

/*
Write takes a context, an Adapter, a table name, the column names and a
slice of rows and stores the rows on the table, creating it if it does not
exist. Rows are inserted in chunks of MaxRowInsertionsPerStatement. The
number of rows inserted is returned with any error found.
*/
func Write(ctx context.Context, a Adapter, table string, columns []string, rows []dataset.Row) (int, error) {
	if err := ValidateIdentifier(table); err != nil {
		return 0, err
	}
	for _, c := range columns {
		if c == IDColumn {
			return 0, fmt.Errorf(`'%s' is reserved and cannot be used as column name`, c)
		}
		if err := ValidateIdentifier(c); err != nil {
			return 0, err
		}
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("no columns to store")
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return 0, &dataset.MalformedRowError{Row: i, Width: len(r), Expected: len(columns)}
		}
	}
	_, err := a.DB().ExecContext(ctx, a.CreateTableStmt(table, columns))
	if err != nil {
		return 0, fmt.Errorf("ensuring table %s exists: %v", table, err)
	}
	inserted := 0
	for inserted < len(rows) {
		end := inserted + MaxRowInsertionsPerStatement
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[inserted:end]
		values := make([]interface{}, 0, len(chunk)*len(columns))
		for _, r := range chunk {
			for _, v := range r {
				values = append(values, v)
			}
		}
		_, err = a.DB().ExecContext(ctx, InsertStmt(a, table, columns, len(chunk)), values...)
		if err != nil {
			return inserted, fmt.Errorf("inserting %d rows after the %dth: %v", len(chunk), inserted, err)
		}
		inserted = end
	}
	return inserted, nil
}

// ValidateIdentifier returns an error if the given table or column name cannot be quoted
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("empty identifier")
	}
	if strings.ContainsAny(name, `"`) {
		return fmt.Errorf(`identifier '%s' contains invalid character '"'`, name)
	}
	return nil
}

// SelectStmt returns the query that reads the given columns of a table
func SelectStmt(table string, columns []string, orderByID bool) string {
	var queryBuffer bytes.Buffer
	queryBuffer.WriteString(`SELECT "`)
	queryBuffer.WriteString(strings.Join(columns, `", "`))
	queryBuffer.WriteString(`" FROM "`)
	queryBuffer.WriteString(table)
	queryBuffer.WriteString(`"`)
	if orderByID {
		queryBuffer.WriteString(fmt.Sprintf(` ORDER BY "%s"`, IDColumn))
	}
	return queryBuffer.String()
}

// InsertStmt returns the command that inserts n rows on the given columns of a table
func InsertStmt(a Adapter, table string, columns []string, n int) string {
	var stmtBuffer bytes.Buffer
	stmtBuffer.WriteString(`INSERT INTO "`)
	stmtBuffer.WriteString(table)
	stmtBuffer.WriteString(`" ("`)
	stmtBuffer.WriteString(strings.Join(columns, `", "`))
	stmtBuffer.WriteString(`") VALUES `)
	p := 1
	for i := 0; i < n; i++ {
		if i > 0 {
			stmtBuffer.WriteString(", ")
		}
		stmtBuffer.WriteString("(")
		for j := range columns {
			if j > 0 {
				stmtBuffer.WriteString(", ")
			}
			stmtBuffer.WriteString(a.Placeholder(p))
			p++
		}
		stmtBuffer.WriteString(")")
	}
	return stmtBuffer.String()
}

func withoutID(columns []string) ([]string, bool) {
	result := make([]string, 0, len(columns))
	found := false
	for _, c := range columns {
		if c == IDColumn {
			found = true
			continue
		}
		result = append(result, c)
	}
	return result, found
}

func toRow(values []sql.NullString) dataset.Row {
	r := make(dataset.Row, len(values))
	for i, v := range values {
		if v.Valid {
			r[i] = v.String
		} else {
			r[i] = Unknown
		}
	}
	return r
}
