package queue

import (
	"database/sql"
	"strings"
	"time"
)

const jobColumns = "id, client_id, input_path, profile, status, output_path, error_message, progress_percent, input_size, output_size, saved_percent, created_at, updated_at, started_at, finished_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id              int64
		clientID        string
		inputPath       string
		profile         string
		statusStr       string
		outputPath      sql.NullString
		errorMessage    sql.NullString
		progressPercent sql.NullFloat64
		inputSize       sql.NullInt64
		outputSize      sql.NullInt64
		savedPercent    sql.NullFloat64
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
		startedRaw      sql.NullString
		finishedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&clientID,
		&inputPath,
		&profile,
		&statusStr,
		&outputPath,
		&errorMessage,
		&progressPercent,
		&inputSize,
		&outputSize,
		&savedPercent,
		&createdRaw,
		&updatedRaw,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:              id,
		ClientID:        clientID,
		InputPath:       inputPath,
		Profile:         profile,
		Status:          Status(statusStr),
		OutputPath:      outputPath.String,
		ErrorMessage:    errorMessage.String,
		ProgressPercent: progressPercent.Float64,
		InputSize:       inputSize.Int64,
		OutputSize:      outputSize.Int64,
		SavedPercent:    savedPercent.Float64,
		CreatedAt:       parseTimestamp(createdRaw),
		UpdatedAt:       parseTimestamp(updatedRaw),
	}
	if startedRaw.Valid {
		if ts := parseTimestamp(startedRaw); !ts.IsZero() {
			job.StartedAt = &ts
		}
	}
	if finishedRaw.Valid {
		if ts := parseTimestamp(finishedRaw); !ts.IsZero() {
			job.FinishedAt = &ts
		}
	}
	return job, nil
}

func parseTimestamp(raw sql.NullString) time.Time {
	if !raw.Valid {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw.String)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}
