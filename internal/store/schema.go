package store

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id          BIGSERIAL PRIMARY KEY,
		employee_id VARCHAR(50)  NOT NULL UNIQUE,
		full_name   VARCHAR(100) NOT NULL,
		email       VARCHAR(100) NOT NULL UNIQUE,
		department  VARCHAR(100) NOT NULL,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id          BIGSERIAL PRIMARY KEY,
		employee_id VARCHAR(50) NOT NULL REFERENCES employees (employee_id) ON DELETE CASCADE,
		date        DATE        NOT NULL,
		status      VARCHAR(10) NOT NULL CHECK (status IN ('Present', 'Absent')),
		marked_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (employee_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS attendance_date_idx ON attendance (date DESC, marked_at DESC)`,
	`CREATE INDEX IF NOT EXISTS attendance_marked_at_idx ON attendance (marked_at DESC)`,
}

// EnsureSchema creates the tables the HR store needs if they are missing.
func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
