package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned by RunByID for unknown run IDs.
var ErrRunNotFound = errors.New("db: run not found")

// Run records one adaptation.
type Run struct {
	RunID      string     `json:"run_id"`
	Method     string     `json:"method"`
	NSamples   int        `json:"nsamples"`
	Seed       *uint64    `json:"seed,omitempty"`
	SourcePath string     `json:"source_path"`
	TargetPath string     `json:"target_path"`
	OutputPath string     `json:"output_path"`
	Height     int        `json:"height"`
	Width      int        `json:"width"`
	Channels   int        `json:"channels"`
	DurationMs int64      `json:"duration_ms"`
	MeanShift  [3]float64 `json:"mean_shift"`
	CreatedAt  time.Time  `json:"created_at"`
}

const runColumns = `run_id, method, nsamples, seed, source_path, target_path, output_path,
	height, width, channels, duration_ms, mean_shift_0, mean_shift_1, mean_shift_2, created_at`

// RecordRun inserts r. A missing RunID is filled with a new UUID and a zero
// CreatedAt with the current time.
func (db *DB) RecordRun(r *Run) error {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	var seed sql.NullInt64
	if r.Seed != nil {
		seed = sql.NullInt64{Int64: int64(*r.Seed), Valid: true}
	}
	_, err := db.Exec(`INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Method, r.NSamples, seed, r.SourcePath, r.TargetPath, r.OutputPath,
		r.Height, r.Width, r.Channels, r.DurationMs,
		r.MeanShift[0], r.MeanShift[1], r.MeanShift[2], r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// RunByID returns the run with the given ID.
func (db *DB) RunByID(id string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r       Run
		seed    sql.NullInt64
		created int64
	)
	err := s.Scan(&r.RunID, &r.Method, &r.NSamples, &seed, &r.SourcePath, &r.TargetPath, &r.OutputPath,
		&r.Height, &r.Width, &r.Channels, &r.DurationMs,
		&r.MeanShift[0], &r.MeanShift[1], &r.MeanShift[2], &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if seed.Valid {
		v := uint64(seed.Int64)
		r.Seed = &v
	}
	r.CreatedAt = time.UnixMilli(created)
	return &r, nil
}
