package storage

import (
	"encoding/csv"
	"fmt"
	"os"

	"library-scraper/logger"
	"library-scraper/models"
)

// RecordStream is a pull-based record source. Each call produces the next
// record; ok=false ends the stream. The first error ends it too.
type RecordStream func() (models.Record, bool, error)

// WriteCSV streams records into filename: truncating create, header row in
// schema order, then one row per record as it is pulled. Only a single
// record is held at a time, so rows written before a mid-stream failure are
// already flushed and stay readable. Returns the number of data rows
// written.
func WriteCSV(filename string, schema []string, next RecordStream) (count int, err error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", filename, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", filename, closeErr)
		}
	}()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(schema); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	log := logger.ForWriter()
	for {
		rec, ok, err := next()
		if err != nil {
			w.Flush()
			return count, err
		}
		if !ok {
			break
		}

		// Operator visibility during long runs.
		log.Info().Fields(toFields(rec)).Msg("record")

		if err := w.Write(rec.Row(schema)); err != nil {
			return count, fmt.Errorf("write record %d: %w", count+1, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return count, fmt.Errorf("flush record %d: %w", count+1, err)
		}
		count++
	}

	w.Flush()
	return count, w.Error()
}

func toFields(rec models.Record) map[string]any {
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		fields[k] = v
	}
	return fields
}
