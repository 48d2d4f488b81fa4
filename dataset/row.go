package dataset

import (
	"fmt"
	"strings"
)

/*
Row represents an item to classify or from which to learn how to classify
them: an ordered sequence of categorical field values, one per attribute
column, followed by the target label.
*/
type Row []string

/*
Value returns the value of the row for the given column, or false if the
row is too short to hold it.
*/
func (r Row) Value(column int) (string, bool) {
	if column < 0 || column >= len(r) {
		return "", false
	}
	return r[column], true
}

// Label returns the value of the row at the given target column
func (r Row) Label(target int) string {
	return r[target]
}

func (r Row) String() string {
	return fmt.Sprintf("[%s]", strings.Join(r, ","))
}

/*
MoveToLast takes a slice of rows and the index of a column and returns
copies of the rows with that column moved to the end, so it becomes the
target label of a dataset built with NewFromLastColumn. A column of -1
selects the last column and returns the rows as they are. Rows too short
to hold the column yield a *MalformedRowError.
*/
func MoveToLast(rows []Row, column int) ([]Row, error) {
	if column == -1 {
		return rows, nil
	}
	if column < -1 {
		return nil, fmt.Errorf("invalid column index %d", column)
	}
	result := make([]Row, len(rows))
	for i, r := range rows {
		if column >= len(r) {
			return nil, &MalformedRowError{Row: i, Width: len(r), Expected: column + 1}
		}
		moved := make(Row, 0, len(r))
		moved = append(moved, r[:column]...)
		moved = append(moved, r[column+1:]...)
		result[i] = append(moved, r[column])
	}
	return result, nil
}
