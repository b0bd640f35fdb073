package storage

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-scraper/models"
)

var testSchema = []string{"title", "author", "new_release"}

func testRecord(title, author string, newRelease bool) models.Record {
	rec := models.Record{"title": title, "author": author}
	rec.SetBool("new_release", newRelease)
	return rec
}

func streamOf(recs ...models.Record) RecordStream {
	i := 0
	return func() (models.Record, bool, error) {
		if i >= len(recs) {
			return nil, false, nil
		}
		rec := recs[i]
		i++
		return rec, true, nil
	}
}

func readRows(t *testing.T, filename string) [][]string {
	t.Helper()
	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSVHeaderAndRows(t *testing.T) {
	out := filepath.Join(t.TempDir(), "books.csv")

	count, err := WriteCSV(out, testSchema, streamOf(
		testRecord("A Book", "Someone", true),
		testRecord("Another", "Someone Else", false),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows := readRows(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, testSchema, rows[0])
	assert.Equal(t, []string{"A Book", "Someone", "true"}, rows[1])
	assert.Equal(t, []string{"Another", "Someone Else", "false"}, rows[2])
}

// The sink pulls each record exactly once and holds only one at a time.
func TestWriteCSVPullsEachRecordOnce(t *testing.T) {
	out := filepath.Join(t.TempDir(), "books.csv")

	const total = 100
	pulls := 0
	stream := func() (models.Record, bool, error) {
		if pulls >= total {
			return nil, false, nil
		}
		pulls++
		return testRecord("t", "a", false), true, nil
	}

	count, err := WriteCSV(out, testSchema, stream)
	require.NoError(t, err)
	assert.Equal(t, total, count)
	assert.Equal(t, total, pulls)
}

// An existing destination is truncated, never appended.
func TestWriteCSVTruncatesExistingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(out, []byte("old,content\nrow,here\nrow,two\nrow,three\n"), 0o644))

	count, err := WriteCSV(out, testSchema, streamOf(testRecord("Fresh", "New", false)))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rows := readRows(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, testSchema, rows[0])
	assert.Equal(t, []string{"Fresh", "New", "false"}, rows[1])
}

// Rows written before a mid-stream failure stay flushed and readable, and
// the returned count reflects them.
func TestWriteCSVPartialOutputOnStreamError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "books.csv")

	boom := errors.New("walker exploded")
	i := 0
	stream := func() (models.Record, bool, error) {
		if i == 2 {
			return nil, false, boom
		}
		i++
		return testRecord("t", "a", false), true, nil
	}

	count, err := WriteCSV(out, testSchema, stream)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, count)

	rows := readRows(t, out)
	assert.Len(t, rows, 3) // header + the two flushed records
}

func TestWriteCSVEmptyStream(t *testing.T) {
	out := filepath.Join(t.TempDir(), "books.csv")

	count, err := WriteCSV(out, testSchema, streamOf())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	rows := readRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, testSchema, rows[0])
}

func TestWriteCSVUnwritableDestination(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "books.csv")

	_, err := WriteCSV(out, testSchema, streamOf())
	require.Error(t, err)
}
