// Package dataset persists engine records and extraction outcomes as JSONL
// files: one JSON document per line, written atomically via a temp file.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/niksavis/burndown-chart-sub004/internal/extract"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// Lines can carry whole changelogs; give the scanner room beyond the
// default 64KiB token limit.
const maxLineBytes = 16 * 1024 * 1024

// LoadRecords reads records from a JSONL file. Invalid lines are skipped
// with a warning rather than failing the load.
func LoadRecords(path string) ([]record.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	var records []record.Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec record.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping invalid JSON line in records file")
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading records file: %w", err)
	}

	log.Info().Str("path", path).Int("count", len(records)).Msg("Loaded records")
	return records, nil
}

// SaveRecords persists records to a JSONL file.
func SaveRecords(path string, records []record.Record) error {
	return saveLines(path, len(records), func(enc *json.Encoder) error {
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("failed to encode record %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}

// SaveOutcomes persists extraction outcomes to a JSONL file.
func SaveOutcomes(path string, outcomes []extract.Outcome) error {
	return saveLines(path, len(outcomes), func(enc *json.Encoder) error {
		for _, o := range outcomes {
			if err := enc.Encode(o); err != nil {
				return fmt.Errorf("failed to encode outcome %s/%s: %w", o.RecordID, o.Variable, err)
			}
		}
		return nil
	})
}

func saveLines(path string, count int, write func(*json.Encoder) error) error {
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	writer := bufio.NewWriter(file)
	if err := write(json.NewEncoder(writer)); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	log.Info().Str("path", path).Int("count", count).Msg("Saved JSONL file")
	return nil
}
