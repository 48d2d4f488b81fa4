package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapling-ml/sapling/dataset"
)

type numberedAdapter struct{}

func (numberedAdapter) DB() *sql.DB { return nil }

func (numberedAdapter) ColumnNames(context.Context, string) ([]string, error) { return nil, nil }

func (numberedAdapter) CreateTableStmt(string, []string) string { return "" }

func (numberedAdapter) Placeholder(i int) string { return fmt.Sprintf("$%d", i) }

func (numberedAdapter) Close() error { return nil }

func TestSelectStmt(t *testing.T) {
	require.Equal(t, `SELECT "f1", "label" FROM "rows" ORDER BY "id"`, SelectStmt("rows", []string{"f1", "label"}, true))
	require.Equal(t, `SELECT "f1" FROM "rows"`, SelectStmt("rows", []string{"f1"}, false))
}

func TestInsertStmt(t *testing.T) {
	stmt := InsertStmt(numberedAdapter{}, "rows", []string{"f1", "label"}, 2)
	require.Equal(t, `INSERT INTO "rows" ("f1", "label") VALUES ($1, $2), ($3, $4)`, stmt)
}

func TestValidateIdentifier(t *testing.T) {
	require.NoError(t, ValidateIdentifier("rows"))
	require.Error(t, ValidateIdentifier(""))
	require.Error(t, ValidateIdentifier(`ro"ws`))
}

func TestWithoutID(t *testing.T) {
	columns, ordered := withoutID([]string{"f1", "id", "label"})
	require.True(t, ordered)
	require.Equal(t, []string{"f1", "label"}, columns)

	columns, ordered = withoutID([]string{"f1"})
	require.False(t, ordered)
	require.Equal(t, []string{"f1"}, columns)
}

func TestToRow(t *testing.T) {
	r := toRow([]sql.NullString{{String: "a", Valid: true}, {}, {String: "1", Valid: true}})
	require.Equal(t, dataset.Row{"a", Unknown, "1"}, r)
}

func TestWriteValidates(t *testing.T) {
	ctx := context.Background()
	_, err := Write(ctx, numberedAdapter{}, "rows", []string{"id", "label"}, nil)
	require.Error(t, err)

	_, err = Write(ctx, numberedAdapter{}, "rows", nil, nil)
	require.Error(t, err)

	_, err = Write(ctx, numberedAdapter{}, "rows", []string{"f1", "label"}, []dataset.Row{{"a"}})
	var mre *dataset.MalformedRowError
	require.ErrorAs(t, err, &mre)
	require.Equal(t, 2, mre.Expected)
}
