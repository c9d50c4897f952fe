package query

import (
	"bytes"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queryMockRows runs a canned query against a sqlmock database and
// returns the live rows for rendering.
func queryMockRows(t *testing.T, mockRows *sqlmock.Rows) *sql.Rows {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT").WillReturnRows(mockRows)

	rows, err := db.Query("SELECT * FROM milestones")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rows.Close() })

	return rows
}

func milestoneRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"year", "event", "flops"}).
		AddRow(1997, "Deep Blue", 1.0e11).
		AddRow(2020, "GPT-3", 3.14e23)
}

func TestRenderRowsTable(t *testing.T) {
	rows := queryMockRows(t, milestoneRows())

	buf := new(bytes.Buffer)
	err := RenderRows(buf, rows, "table")
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Deep Blue")
	assert.Contains(t, output, "GPT-3")
	assert.Contains(t, output, "(2 rows)")
}

func TestRenderRowsJSON(t *testing.T) {
	rows := queryMockRows(t, milestoneRows())

	buf := new(bytes.Buffer)
	err := RenderRows(buf, rows, "json")
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `"event"`)
	assert.Contains(t, output, `"Deep Blue"`)
	assert.Contains(t, output, `"year"`)
}

func TestRenderRowsCSV(t *testing.T) {
	rows := queryMockRows(t, milestoneRows())

	buf := new(bytes.Buffer)
	err := RenderRows(buf, rows, "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "year,event,flops", lines[0])
	assert.Contains(t, lines[1], "Deep Blue")
}

func TestRenderRowsCSVEscapesCommas(t *testing.T) {
	mockRows := sqlmock.NewRows([]string{"event"}).
		AddRow(`AlphaGo, "Lee Sedol match"`)
	rows := queryMockRows(t, mockRows)

	buf := new(bytes.Buffer)
	err := RenderRows(buf, rows, "csv")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"AlphaGo, ""Lee Sedol match"""`)
}

func TestRenderRowsMarkdown(t *testing.T) {
	rows := queryMockRows(t, milestoneRows())

	buf := new(bytes.Buffer)
	err := RenderRows(buf, rows, "md")
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "| year | event | flops |")
	assert.Contains(t, output, "| --- | --- | --- |")
	assert.Contains(t, output, "| 1997 | Deep Blue |")
}

func TestRenderRowsEmpty(t *testing.T) {
	mockRows := sqlmock.NewRows([]string{"year", "event"})
	rows := queryMockRows(t, mockRows)

	buf := new(bytes.Buffer)
	err := RenderRows(buf, rows, "table")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "(0 rows)")
}

func TestRenderRowsNullValue(t *testing.T) {
	mockRows := sqlmock.NewRows([]string{"event", "notes"}).
		AddRow("ENIAC", nil)
	rows := queryMockRows(t, mockRows)

	buf := new(bytes.Buffer)
	err := RenderRows(buf, rows, "table")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "NULL")
}
