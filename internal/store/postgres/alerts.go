package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/floodforge/flood-risk-service/internal/domain"
)

const alertColumns = "id, zone_id, severity, message, status, triggered_at, resolved_at, created_at"

// Alerts returns all alerts newest first, optionally filtered to one status.
func (s *Store) Alerts(ctx context.Context, status *domain.AlertStatus) ([]domain.Alert, error) {
	query := "SELECT " + alertColumns + " FROM alerts"
	var args []any
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY triggered_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MarkAlertResolved applies the TRIGGERED → RESOLVED transition atomically via
// a conditional update. The status predicate makes RESOLVED terminal even
// under concurrent resolves: the losing call sees domain.ErrConflict.
func (s *Store) MarkAlertResolved(ctx context.Context, id string, at time.Time) (domain.Alert, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE alerts SET status = $2, resolved_at = $3
		WHERE id = $1 AND status = $4
		RETURNING `+alertColumns,
		id, domain.StatusResolved, at, domain.StatusTriggered,
	)

	alert, err := scanAlert(row)
	if err == nil {
		return alert, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Alert{}, err
	}

	// No row updated: distinguish a missing alert from an already-resolved one.
	var status domain.AlertStatus
	err = s.pool.QueryRow(ctx, "SELECT status FROM alerts WHERE id = $1", id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Alert{}, fmt.Errorf("alert %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Alert{}, fmt.Errorf("check alert status: %w", err)
	}
	return domain.Alert{}, fmt.Errorf("alert %s already %s: %w", id, status, domain.ErrConflict)
}

func scanAlert(row pgx.Row) (domain.Alert, error) {
	var a domain.Alert
	err := row.Scan(
		&a.ID, &a.ZoneID, &a.Severity, &a.Message, &a.Status,
		&a.TriggeredAt, &a.ResolvedAt, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Alert{}, err
		}
		return domain.Alert{}, fmt.Errorf("scan alert: %w", err)
	}
	return a, nil
}
