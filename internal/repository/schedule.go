// Package repository archives dimensioning results in PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// ErrNotFound is returned when an archived schedule does not exist.
var ErrNotFound = errors.New("schedule not found")

const schema = `
CREATE TABLE IF NOT EXISTS schedules (
	id           UUID PRIMARY KEY,
	project_name TEXT NOT NULL,
	settings     JSONB NOT NULL,
	rooms        JSONB NOT NULL,
	totals       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS schedule_circuits (
	schedule_id        UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	idx                INTEGER NOT NULL,
	label              TEXT NOT NULL,
	category           SMALLINT NOT NULL,
	voltage            INTEGER NOT NULL,
	total_load         DOUBLE PRECISION NOT NULL,
	loads              JSONB NOT NULL,
	ib                 DOUBLE PRECISION NOT NULL,
	fct                DOUBLE PRECISION NOT NULL,
	fca                DOUBLE PRECISION NOT NULL,
	required_ampacity  DOUBLE PRECISION NOT NULL,
	section            DOUBLE PRECISION NOT NULL,
	corrected_ampacity DOUBLE PRECISION NOT NULL,
	breaker            INTEGER NOT NULL,
	status             TEXT NOT NULL,
	fault              TEXT NOT NULL,
	PRIMARY KEY (schedule_id, idx)
);`

// ScheduleRecord is an archived schedule.
type ScheduleRecord struct {
	ID          string
	ProjectName string
	CreatedAt   time.Time
	Schedule    model.Schedule
}

// ScheduleSummary is one line of the archive listing.
type ScheduleSummary struct {
	ID          string
	ProjectName string
	CreatedAt   time.Time
	Circuits    int
	Failing     int // Circuits not OK
}

// ScheduleRepository stores schedules and their circuits.
type ScheduleRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewScheduleRepository(db *sql.DB, logger *zap.Logger) *ScheduleRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureSchema creates the archive tables if they do not exist.
func (r *ScheduleRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save archives a schedule in one transaction and returns its id.
func (r *ScheduleRepository) Save(ctx context.Context, projectName string, sched model.Schedule) (string, error) {
	if projectName == "" {
		return "", fmt.Errorf("project_name is required")
	}

	settings, err := json.Marshal(sched.Settings)
	if err != nil {
		return "", fmt.Errorf("failed to marshal settings: %w", err)
	}
	rooms, err := json.Marshal(sched.Rooms)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rooms: %w", err)
	}
	totals, err := json.Marshal(sched.Totals)
	if err != nil {
		return "", fmt.Errorf("failed to marshal totals: %w", err)
	}

	id := uuid.New().String()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedules (id, project_name, settings, rooms, totals, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, projectName, string(settings), string(rooms), string(totals), r.now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert schedule: %w", err)
	}

	for _, c := range sched.Circuits {
		loads, err := json.Marshal(nonNil(c.Loads))
		if err != nil {
			return "", fmt.Errorf("failed to marshal loads of circuit %d: %w", c.Index, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO schedule_circuits (
				schedule_id, idx, label, category, voltage, total_load, loads,
				ib, fct, fca, required_ampacity, section, corrected_ampacity,
				breaker, status, fault
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			id, c.Index, c.Label, int(c.Category), c.Voltage, c.TotalLoad, string(loads),
			c.DesignCurrent, c.FCT, c.FCA, c.RequiredAmpacity, c.Section, c.CorrectedAmpacity,
			c.Breaker, string(c.Status), string(c.Fault),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert circuit %d: %w", c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit schedule: %w", err)
	}

	r.logger.Info("Archived schedule",
		zap.String("schedule_id", id),
		zap.String("project", projectName),
		zap.Int("circuits", len(sched.Circuits)),
	)
	return id, nil
}

// Get loads an archived schedule with its circuits in index order.
func (r *ScheduleRepository) Get(ctx context.Context, id string) (*ScheduleRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("schedule id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var (
		rec                     ScheduleRecord
		settings, rooms, totals []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_name, settings, rooms, totals, created_at
		FROM schedules
		WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.ProjectName, &settings, &rooms, &totals, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get schedule %s: %w", id, err)
	}

	if err := json.Unmarshal(settings, &rec.Schedule.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := json.Unmarshal(rooms, &rec.Schedule.Rooms); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rooms: %w", err)
	}
	if err := json.Unmarshal(totals, &rec.Schedule.Totals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal totals: %w", err)
	}

	circuits, err := r.circuits(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Schedule.Circuits = circuits
	return &rec, nil
}

func (r *ScheduleRepository) circuits(ctx context.Context, id string) ([]model.Circuit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT idx, label, category, voltage, total_load, loads,
			ib, fct, fca, required_ampacity, section, corrected_ampacity,
			breaker, status, fault
		FROM schedule_circuits
		WHERE schedule_id = $1
		ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query circuits: %w", err)
	}
	defer rows.Close()

	var circuits []model.Circuit
	for rows.Next() {
		var (
			c             model.Circuit
			category      int
			loads         []byte
			status, fault string
		)
		if err := rows.Scan(
			&c.Index, &c.Label, &category, &c.Voltage, &c.TotalLoad, &loads,
			&c.DesignCurrent, &c.FCT, &c.FCA, &c.RequiredAmpacity, &c.Section, &c.CorrectedAmpacity,
			&c.Breaker, &status, &fault,
		); err != nil {
			return nil, fmt.Errorf("failed to scan circuit: %w", err)
		}
		if err := json.Unmarshal(loads, &c.Loads); err != nil {
			return nil, fmt.Errorf("failed to unmarshal loads of circuit %d: %w", c.Index, err)
		}
		if len(c.Loads) == 0 {
			c.Loads = nil
		}
		c.Category = model.Category(category)
		c.Status = model.Status(status)
		c.Fault = model.Fault(fault)
		circuits = append(circuits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read circuits: %w", err)
	}
	return circuits, nil
}

// List returns the most recent archived schedules, newest first.
func (r *ScheduleRepository) List(ctx context.Context, limit int) ([]ScheduleSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.project_name, s.created_at,
			COUNT(c.idx),
			COUNT(c.idx) FILTER (WHERE c.status <> 'OK')
		FROM schedules s
		LEFT JOIN schedule_circuits c ON c.schedule_id = s.id
		GROUP BY s.id, s.project_name, s.created_at
		ORDER BY s.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var out []ScheduleSummary
	for rows.Next() {
		var s ScheduleSummary
		if err := rows.Scan(&s.ID, &s.ProjectName, &s.CreatedAt, &s.Circuits, &s.Failing); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schedules: %w", err)
	}
	return out, nil
}

// Delete removes an archived schedule and its circuits.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	r.logger.Info("Deleted schedule", zap.String("schedule_id", id))
	return nil
}

func nonNil(loads []float64) []float64 {
	if loads == nil {
		return []float64{}
	}
	return loads
}
